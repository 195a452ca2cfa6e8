package seen

import (
	"context"
	"sync"
)

// MemoryStore holds the ledger for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]struct{})}
}

func (m *MemoryStore) Has(_ context.Context, link string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.links[link]
	return ok, nil
}

func (m *MemoryStore) Add(_ context.Context, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link] = struct{}{}
	return nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links), nil
}
