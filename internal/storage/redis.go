package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis. Every value is stored as a
// versioned JSON envelope under its key with the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedisStore creates a Redis-backed store. A zero ttl means keys do not
// expire.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Load reads and decodes the envelope stored under key into dst. It reports
// false on any failure, leaving dst untouched.
func (s *RedisStore) Load(ctx context.Context, key string, dst any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "storage load failed", "key", key, "error", err)
		}
		return false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.WarnContext(ctx, "storage payload corrupt", "key", key, "error", err)
		return false
	}
	if env.SchemaVersion != SchemaVersion {
		s.log.WarnContext(ctx, "storage schema version mismatch",
			"key", key, "got", env.SchemaVersion, "want", SchemaVersion)
		return false
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		s.log.WarnContext(ctx, "storage data corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// Save encodes v into the envelope and writes it under key. Failures are
// logged and swallowed.
func (s *RedisStore) Save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.ErrorContext(ctx, "storage marshal failed", "key", key, "error", err)
		return
	}
	data, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: raw})
	if err != nil {
		s.log.ErrorContext(ctx, "storage marshal failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "storage save failed", "key", key, "error", err)
	}
}

// Delete removes key best-effort.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.WarnContext(ctx, "storage delete failed", "key", key, "error", err)
	}
}
