package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is a volatile Store backend used for development and
// tests. Values round-trip through JSON so behavior matches SQLite.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func memKey(kind, owner string) string {
	return kind + "\x00" + owner
}

func (s *MemoryStore) Get(_ context.Context, kind, owner string, v any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.entries[memKey(kind, owner)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode entry %s/%s: %w", kind, owner, err)
	}
	return true, nil
}

func (s *MemoryStore) Put(_ context.Context, kind, owner string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode entry %s/%s: %w", kind, owner, err)
	}
	s.mu.Lock()
	s.entries[memKey(kind, owner)] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, kind, owner string) error {
	s.mu.Lock()
	delete(s.entries, memKey(kind, owner))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
