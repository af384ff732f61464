package vectorstore

import (
	"context"
	"sync"
)

// InMemoryStore is a process-local Store. Collections are copied on write and
// on read so callers cannot mutate stored vectors.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewInMemoryStore creates an empty in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{collections: make(map[string][]Record)}
}

// Replace implements Store.
func (s *InMemoryStore) Replace(_ context.Context, collection string, records []Record) error {
	cp := make([]Record, len(records))
	for i, r := range records {
		cp[i] = cloneRecord(r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = cp
	return nil
}

// Query implements Store.
func (s *InMemoryStore) Query(_ context.Context, collection string, vector []float32, k int) ([]Match, error) {
	s.mu.RLock()
	records, ok := s.collections[collection]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCollectionNotFound
	}
	matches := Rank(records, vector, k)
	for i := range matches {
		matches[i].Record = cloneRecord(matches[i].Record)
	}
	return matches, nil
}

// Count implements Store.
func (s *InMemoryStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func cloneRecord(r Record) Record {
	v := make([]float32, len(r.Vector))
	copy(v, r.Vector)
	r.Vector = v
	return r
}
