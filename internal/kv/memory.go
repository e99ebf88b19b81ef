package kv

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for hosts without durable filesystem
// access (web contexts) and for tests. Contents are lost on process exit;
// records persisted here rely on inline content rather than file paths.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]string)}
}

// GetStringList implements Store.
func (s *MemoryStore) GetStringList(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[key]
	out := make([]string, len(stored))
	copy(out, stored)
	return out, nil
}

// PutStringList implements Store.
func (s *MemoryStore) PutStringList(_ context.Context, key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]string, len(values))
	copy(stored, values)
	s.data[key] = stored
	return nil
}

// DeleteKey implements Store.
func (s *MemoryStore) DeleteKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
