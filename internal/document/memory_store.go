package document

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-memory map. Intended for
// demos and testing — no files or database required. Documents are
// deep-copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (s *MemoryStore) Load(_ context.Context, name string) (map[string]any, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(doc), nil
}

func (s *MemoryStore) Save(_ context.Context, name string, doc map[string]any) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = Clone(doc)
	return nil
}
