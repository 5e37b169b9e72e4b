// Package app wires the shopfront service together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/backend"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/config"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/event"
	handler "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/handler/http"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/offline"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/service"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/internal/storage"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/health"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/httpclient"
	pkgkafka "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/kafka"
	"github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the shopfront service.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	rdb         *redis.Client
	producer    *pkgkafka.Producer
	worker      *offline.Worker
	httpServer  *http.Server
	stopTracing func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "shopfront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis backs both the client-state store and the offline cache.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Client-state services.
	stateTTL := time.Duration(cfg.StateTTL) * time.Hour
	store := storage.NewRedisStore(rdb, stateTTL, logger)
	eventProducer := event.NewProducer(producer, logger)
	cartService := service.NewCartService(store, eventProducer, logger)
	ratingService := service.NewRatingService(store, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	sessionService := service.NewSessionService(store, logger)

	// Backend client behind a circuit breaker.
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("backend"),
		logger,
	)
	backendClient := backend.New(backend.Config{
		BaseURL:     cfg.BackendURL,
		APIKey:      cfg.BackendAPIKey,
		CategoryTTL: time.Duration(cfg.CategoryCacheTTL) * time.Minute,
	}, cb, logger)

	// Offline cache worker.
	worker, err := offline.NewWorker(offline.Config{
		Version:       cfg.CacheVersion,
		Upstream:      cfg.BackendURL,
		ShellManifest: cfg.ShellManifest,
	}, offline.NewRedisStore(rdb, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("create offline worker: %w", err)
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	router := handler.NewRouter(handler.RouterDeps{
		Cart:       cartService,
		Ratings:    ratingService,
		Sessions:   sessionService,
		Backend:    backendClient,
		Offline:    worker,
		Health:     healthHandler,
		Logger:     logger,
		PprofCIDRs: cfg.PprofCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		rdb:         rdb,
		producer:    producer,
		worker:      worker,
		httpServer:  httpServer,
		stopTracing: stopTracing,
	}, nil
}

// Run starts the offline worker and the HTTP server and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Precache and activate the offline layer. A failed install leaves
	// the worker passing traffic straight through, which is still a
	// working service.
	if err := a.worker.Install(ctx); err != nil {
		a.logger.Error("offline worker install failed, serving passthrough",
			slog.String("error", err.Error()),
		)
	} else if err := a.worker.Activate(ctx); err != nil {
		a.logger.Error("offline worker activate failed",
			slog.String("error", err.Error()),
		)
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.stopTracing(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
