// Package store provides the key/value persistence layer.  Every state
// collection (sessions, codes, users, contest entries, ...) serializes
// independently under its own key as JSON.  The Store interface keeps
// orchestration logic independent of the backend: the in-memory store
// serves tests and single-user mode, while Redis and MySQL back real
// deployments.
//
// The store offers no cross-key transaction guarantee.  Callers that
// need causally linked mutations (occupancy, loyalty counter, history)
// must serialize them above this layer; the repositories do so with
// per-collection mutexes.
package store

import (
	"context"
	"sync"
)

// Store is the minimal contract the repositories depend on.  Get
// reports found=false when the key has never been written (or was
// deleted), which callers treat as an empty collection.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Memory is a process-local Store.  It is the default backend and the
// one used throughout the test suite.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value so callers can not mutate the
// store's backing slice.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

// Delete removes key; deleting an absent key is a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
