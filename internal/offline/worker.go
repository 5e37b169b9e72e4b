package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
)

// Worker lifecycle phases.
const (
	PhaseNew        = "new"
	PhaseInstalling = "installing"
	PhaseInstalled  = "installed"
	PhaseActivating = "activating"
	PhaseActivated  = "activated"
)

// staticExtensions are the asset suffixes served cache-first.
var staticExtensions = map[string]struct{}{
	".js": {}, ".css": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".webp": {}, ".svg": {}, ".ico": {}, ".woff": {}, ".woff2": {}, ".ttf": {},
}

// Config holds the worker settings.
type Config struct {
	// Version tags the cache partitions; bumping it makes Activate drop
	// partitions written by older builds.
	Version string

	// Upstream is the base URL requests are forwarded to.
	Upstream string

	// ShellManifest lists the paths precached during Install. A fetch
	// failure for any of them aborts the install.
	ShellManifest []string

	// RequestTimeout bounds each upstream fetch.
	RequestTimeout time.Duration

	// MaxEntryBytes caps the footprint of a single cached response.
	// Larger responses are served but never stored.
	MaxEntryBytes int64
}

// Worker is the offline-serving cache layer. It fronts the upstream with
// an install/activate lifecycle and serves GET requests through
// per-request-class caching policies; everything else passes straight
// through.
type Worker struct {
	cfg      Config
	upstream *url.URL
	store    CacheStore
	client   *http.Client
	proxy    *httputil.ReverseProxy
	logger   *slog.Logger

	mu    sync.RWMutex
	phase string
}

// NewWorker creates a worker in the "new" phase. It serves nothing from
// cache until Install and Activate have run.
func NewWorker(cfg Config, store CacheStore, logger *slog.Logger) (*Worker, error) {
	target, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.MaxEntryBytes <= 0 {
		cfg.MaxEntryBytes = 4 << 20
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("offline proxy error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"code":"BAD_GATEWAY","message":"upstream unavailable"}`))
	}

	return &Worker{
		cfg:      cfg,
		upstream: target,
		store:    store,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		proxy:    proxy,
		logger:   logger,
		phase:    PhaseNew,
	}, nil
}

// StaticPartition returns the versioned static partition name.
func (w *Worker) StaticPartition() string {
	return "storefront-static-" + w.cfg.Version
}

// DynamicPartition returns the versioned dynamic partition name.
func (w *Worker) DynamicPartition() string {
	return "storefront-dynamic-" + w.cfg.Version
}

// Phase returns the current lifecycle phase.
func (w *Worker) Phase() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.phase
}

func (w *Worker) setPhase(phase string) {
	w.mu.Lock()
	w.phase = phase
	w.mu.Unlock()
	w.logger.Info("offline worker phase changed", slog.String("phase", phase))
}

// Install precaches the shell manifest into the static partition. A fetch
// failure for any manifest entry aborts the install; the worker is
// immediately eligible to activate once installed.
func (w *Worker) Install(ctx context.Context) error {
	if p := w.Phase(); p != PhaseNew {
		return fmt.Errorf("install from phase %q", p)
	}
	w.setPhase(PhaseInstalling)

	for _, p := range w.cfg.ShellManifest {
		entry, err := w.fetch(ctx, p, nil)
		if err != nil {
			w.setPhase(PhaseNew)
			w.logger.Error("shell precache failed",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("precache %s: %w", p, err)
		}
		if w.cacheable(entry) {
			w.store.Put(ctx, w.StaticPartition(), p, entry)
		}
	}

	w.setPhase(PhaseInstalled)
	return nil
}

// Activate drops cache partitions written by other versions and starts
// serving from cache.
func (w *Worker) Activate(ctx context.Context) error {
	if p := w.Phase(); p != PhaseInstalled {
		return fmt.Errorf("activate from phase %q", p)
	}
	w.setPhase(PhaseActivating)

	keep := map[string]struct{}{
		w.StaticPartition():  {},
		w.DynamicPartition(): {},
	}
	for _, name := range w.store.Partitions(ctx) {
		if _, ok := keep[name]; ok {
			continue
		}
		w.store.DeletePartition(ctx, name)
		w.logger.Info("dropped stale cache partition", slog.String("partition", name))
	}

	w.setPhase(PhaseActivated)
	return nil
}

// ServeHTTP serves a request through the caching policies. Before the
// worker is activated, and for all non-GET requests, traffic passes
// straight through to the upstream.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || w.Phase() != PhaseActivated {
		w.proxy.ServeHTTP(rw, r)
		return
	}

	switch {
	case w.isAPIRequest(r):
		w.networkFirst(rw, r, w.DynamicPartition(), true)
	case isStaticAsset(r.URL.Path):
		w.cacheFirst(rw, r)
	case isDocumentRequest(r):
		w.networkFirst(rw, r, w.StaticPartition(), true)
	default:
		w.networkFirst(rw, r, w.DynamicPartition(), false)
	}
}

// networkFirst fetches from the upstream and falls back to the partition
// on failure. Transport errors and 5xx upstream responses both count as
// failures. Successful 200 responses are written through when writeThrough
// is set.
func (w *Worker) networkFirst(rw http.ResponseWriter, r *http.Request, partition string, writeThrough bool) {
	key := cacheKey(r)

	entry, err := w.fetch(r.Context(), r.URL.RequestURI(), r.Header)
	if err == nil && entry.Status < http.StatusInternalServerError {
		if writeThrough && w.cacheable(entry) {
			w.store.Put(r.Context(), partition, key, entry)
		}
		writeEntry(rw, entry, "MISS")
		return
	}

	if cached, ok := w.store.Get(r.Context(), partition, key); ok {
		cacheHits.WithLabelValues(partition).Inc()
		w.logger.WarnContext(r.Context(), "serving stale response, upstream unreachable",
			slog.String("path", r.URL.Path),
			slog.String("error", fetchFailure(entry, err)),
		)
		writeEntry(rw, cached, "HIT")
		return
	}

	cacheMisses.WithLabelValues(partition).Inc()
	w.logger.ErrorContext(r.Context(), "upstream unreachable and nothing cached",
		slog.String("path", r.URL.Path),
		slog.String("error", fetchFailure(entry, err)),
	)
	if err == nil {
		// Nothing cached to shield the client with; relay the upstream
		// error response as-is.
		writeEntry(rw, entry, "MISS")
		return
	}
	http.Error(rw, "upstream unavailable", http.StatusBadGateway)
}

func fetchFailure(entry *Entry, err error) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("upstream status %d", entry.Status)
}

// cacheFirst serves static assets from the static partition, fetching and
// storing them on a miss.
func (w *Worker) cacheFirst(rw http.ResponseWriter, r *http.Request) {
	partition := w.StaticPartition()
	key := cacheKey(r)

	if cached, ok := w.store.Get(r.Context(), partition, key); ok {
		cacheHits.WithLabelValues(partition).Inc()
		writeEntry(rw, cached, "HIT")
		return
	}
	cacheMisses.WithLabelValues(partition).Inc()

	entry, err := w.fetch(r.Context(), r.URL.RequestURI(), r.Header)
	if err != nil {
		http.Error(rw, "upstream unavailable", http.StatusBadGateway)
		return
	}
	if w.cacheable(entry) {
		w.store.Put(r.Context(), partition, key, entry)
	}
	writeEntry(rw, entry, "MISS")
}

// cacheable reports whether a response may be stored: only 200s, and only
// up to the configured size cap.
func (w *Worker) cacheable(entry *Entry) bool {
	if entry.Status != http.StatusOK {
		return false
	}
	if entry.Size() > w.cfg.MaxEntryBytes {
		w.logger.Warn("response too large to cache", slog.Int64("bytes", entry.Size()))
		return false
	}
	return true
}

// fetch performs a GET against the upstream and captures the full
// response.
func (w *Worker) fetch(ctx context.Context, requestURI string, header http.Header) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.upstream.String()+requestURI, nil)
	if err != nil {
		return nil, err
	}
	for k, vals := range header {
		if k == "Host" || k == "Connection" {
			continue
		}
		req.Header[k] = vals
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Status:   resp.StatusCode,
		Headers:  resp.Header.Clone(),
		Body:     body,
		CachedAt: time.Now().UTC(),
	}, nil
}

func (w *Worker) isAPIRequest(r *http.Request) bool {
	p := r.URL.Path
	return strings.HasPrefix(p, "/api/") ||
		strings.HasPrefix(p, "/rest/") ||
		strings.HasPrefix(p, "/functions/") ||
		r.Host == w.upstream.Host
}

func isStaticAsset(requestPath string) bool {
	_, ok := staticExtensions[strings.ToLower(path.Ext(requestPath))]
	return ok
}

func isDocumentRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func cacheKey(r *http.Request) string {
	return r.URL.RequestURI()
}

func writeEntry(rw http.ResponseWriter, entry *Entry, cacheStatus string) {
	for k, vals := range entry.Headers {
		for _, v := range vals {
			rw.Header().Add(k, v)
		}
	}
	rw.Header().Set("X-Cache", cacheStatus)
	rw.WriteHeader(entry.Status)
	_, _ = io.Copy(rw, bytes.NewReader(entry.Body))
}
