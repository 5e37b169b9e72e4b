// Package cache provides a small in-process TTL cache for values that are
// expensive to refetch but tolerate staleness, such as category lists.
package cache

import (
	"sync"
	"time"
)

// TTL caches a single value of type T with a fixed freshness window.
// It is safe for concurrent use.
type TTL[T any] struct {
	mu      sync.RWMutex
	value   T
	fetched time.Time
	has     bool
	ttl     time.Duration
	now     func() time.Time
}

// NewTTL creates a cache with the given freshness window.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl, now: time.Now}
}

// NewTTLWithClock creates a cache with an injected clock.
func NewTTLWithClock[T any](ttl time.Duration, now func() time.Time) *TTL[T] {
	return &TTL[T]{ttl: ttl, now: now}
}

// Get returns the cached value and whether a fresh value was present.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has || c.stale() {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and resets the freshness window.
func (c *TTL[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.fetched = c.now()
	c.has = true
}

// Invalidate drops the cached value.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.has = false
}

// IsStale reports whether the cache holds no fresh value.
func (c *TTL[T]) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.has || c.stale()
}

// stale must be called with the lock held.
func (c *TTL[T]) stale() bool {
	return c.now().Sub(c.fetched) > c.ttl
}
