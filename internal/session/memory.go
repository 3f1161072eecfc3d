package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Context
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Context)}
}

// Load returns the session for id, or a fresh one when none is stored.
func (m *MemoryStore) Load(_ context.Context, id string) (Context, error) {
	if id == "" {
		return Context{}, ErrMissingID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sessions[id]
	if !ok {
		return New(), nil
	}
	return c, nil
}

// Save replaces the session stored under id.
func (m *MemoryStore) Save(_ context.Context, id string, c Context) error {
	if id == "" {
		return ErrMissingID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = c
	return nil
}
