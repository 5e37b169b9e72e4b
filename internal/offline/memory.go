package offline

import (
	"context"
	"sync"
)

// MemoryStore is an in-process CacheStore, used in tests and as a
// fallback when no Redis is configured.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]map[string]*Entry
}

// NewMemoryStore creates an empty in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]map[string]*Entry)}
}

// Get returns the entry cached under partition/key, if any.
func (m *MemoryStore) Get(_ context.Context, partition, key string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.partitions[partition][key]
	return entry, ok
}

// Put stores an entry under partition/key.
func (m *MemoryStore) Put(_ context.Context, partition, key string, entry *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partitions[partition]
	if !ok {
		p = make(map[string]*Entry)
		m.partitions[partition] = p
	}
	p[key] = entry
}

// Partitions lists the partition names currently holding entries.
func (m *MemoryStore) Partitions(_ context.Context) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.partitions))
	for name := range m.partitions {
		names = append(names, name)
	}
	return names
}

// DeletePartition drops a whole partition.
func (m *MemoryStore) DeletePartition(_ context.Context, partition string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.partitions, partition)
}
