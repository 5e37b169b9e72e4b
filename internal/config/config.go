package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/config"
)

// Config holds all configuration for the shopfront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SHOPFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Client-state snapshot TTL in hours (default: 30 days).
	StateTTL int `env:"STATE_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Backend-as-a-service
	BackendURL       string `env:"BACKEND_URL,required"`
	BackendAPIKey    string `env:"BACKEND_API_KEY,required"`
	CategoryCacheTTL int    `env:"CATEGORY_CACHE_TTL_MINUTES" envDefault:"10"`

	// Offline cache worker
	CacheVersion  string   `env:"CACHE_VERSION" envDefault:"v1"`
	ShellManifest []string `env:"SHELL_MANIFEST" envDefault:"/,/index.html" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1.0"`

	// Pprof access
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load shopfront config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants; pkg/config calls it during Load.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.BackendURL, err)
	}
	if c.CategoryCacheTTL < 1 {
		return fmt.Errorf("category cache TTL must be positive, got %d", c.CategoryCacheTTL)
	}
	return nil
}
