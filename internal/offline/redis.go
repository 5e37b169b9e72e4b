package offline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Each partition is stored as a single Redis hash under this prefix,
// keyed by request URI.
const redisKeyPrefix = "offline:"

// RedisStore implements CacheStore on top of Redis hashes, one hash per
// partition.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// Get returns the entry cached under partition/key, if any.
func (s *RedisStore) Get(ctx context.Context, partition, key string) (*Entry, bool) {
	raw, err := s.client.HGet(ctx, redisKeyPrefix+partition, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.WarnContext(ctx, "offline cache read failed",
				"partition", partition, "key", key, "error", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.log.WarnContext(ctx, "offline cache entry corrupt",
			"partition", partition, "key", key, "error", err)
		return nil, false
	}
	return &entry, true
}

// Put stores an entry under partition/key best-effort.
func (s *RedisStore) Put(ctx context.Context, partition, key string, entry *Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		s.log.ErrorContext(ctx, "offline cache marshal failed",
			"partition", partition, "key", key, "error", err)
		return
	}
	if err := s.client.HSet(ctx, redisKeyPrefix+partition, key, raw).Err(); err != nil {
		s.log.WarnContext(ctx, "offline cache write failed",
			"partition", partition, "key", key, "error", err)
	}
}

// Partitions lists the partition names present in Redis.
func (s *RedisStore) Partitions(ctx context.Context) []string {
	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		s.log.WarnContext(ctx, "offline cache partition scan failed", "error", err)
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, redisKeyPrefix))
	}
	return names
}

// DeletePartition drops a whole partition.
func (s *RedisStore) DeletePartition(ctx context.Context, partition string) {
	if err := s.client.Del(ctx, redisKeyPrefix+partition).Err(); err != nil {
		s.log.WarnContext(ctx, "offline cache partition delete failed",
			"partition", partition, "error", err)
	}
}
