package session

import (
	"sort"
	"sync"

	"github.com/yonghwan-ko02/talereboot/core"
)

// Store keeps sessions addressable by id.
type Store interface {
	Put(s *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
	IDs() []string
}

// InMemoryStore is a volatile Store keeping sessions in a process local map.
// It is safe for concurrent access and best suited for tests or single
// process servers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty in‑memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Put stores s, replacing any session with the same id.
func (st *InMemoryStore) Put(s *Session) error {
	if s == nil || s.ID == "" {
		return core.NewError(core.CodeInvalidArgument, "session must have an id")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return nil
}

// Get returns the session for id.
func (st *InMemoryStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, core.Errorf(core.CodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Delete removes the session for id.
func (st *InMemoryStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return core.Errorf(core.CodeSessionNotFound, "session %q not found", id)
	}
	delete(st.sessions, id)
	return nil
}

// IDs returns the stored session ids in sorted order.
func (st *InMemoryStore) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
