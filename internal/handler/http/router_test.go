package http

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/offline"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/health"
)

func setupFullRouter(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>shell</html>"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(upstream.Close)

	worker, err := offline.NewWorker(offline.Config{
		Version:       "v1",
		Upstream:      upstream.URL,
		ShellManifest: []string{"/"},
	}, offline.NewMemoryStore(), testLogger())
	require.NoError(t, err)
	require.NoError(t, worker.Install(context.Background()))
	require.NoError(t, worker.Activate(context.Background()))

	store := newMemStore()
	logger := testLogger()
	return NewRouter(RouterDeps{
		Cart:     service.NewCartService(store, testEventProducer(), logger),
		Ratings:  service.NewRatingService(store, rand.New(rand.NewSource(1)), logger),
		Sessions: service.NewSessionService(store, logger),
		Backend:  nil,
		Offline:  worker,
		Health:   health.NewHandler(),
		Logger:   logger,
	})
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := setupFullRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := setupFullRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CartRouteWired(t *testing.T) {
	router := setupFullRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnmatchedPathsFallThroughToOfflineWorker(t *testing.T) {
	router := setupFullRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shell")
}

func TestRouter_PprofDeniedByDefault(t *testing.T) {
	router := setupFullRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
