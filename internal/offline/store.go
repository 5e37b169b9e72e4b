// Package offline implements the offline-serving cache worker: a caching
// reverse proxy in front of the backend with an explicit install/activate
// lifecycle and per-request-class caching policies.
package offline

import (
	"context"
	"net/http"
	"time"
)

// Entry holds a complete cached HTTP response.
type Entry struct {
	Status   int         `json:"status"`
	Headers  http.Header `json:"headers"`
	Body     []byte      `json:"body"`
	CachedAt time.Time   `json:"cached_at"`
}

// Size returns the estimated footprint of the entry in bytes.
func (e *Entry) Size() int64 {
	return int64(len(e.Body)) + int64(len(e.Headers)*30)
}

// CacheStore persists cached responses grouped into named partitions.
// Reads report presence; writes and deletes are best-effort with failures
// logged by the implementation, never returned.
type CacheStore interface {
	Get(ctx context.Context, partition, key string) (*Entry, bool)
	Put(ctx context.Context, partition, key string, entry *Entry)
	Partitions(ctx context.Context) []string
	DeletePartition(ctx context.Context, partition string)
}
