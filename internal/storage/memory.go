package storage

import (
	"context"
	"sync"
)

// Ensure Memory implements Medium
var _ Medium = (*Memory)(nil)

// Memory is an in-process Medium. Each instance is isolated, which makes it
// the medium of choice for tests and throwaway sessions.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	closed  bool
}

// NewMemory creates an empty in-memory medium.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Load returns a copy of the bytes stored under key.
func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Save stores a copy of value under key.
func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Close marks the medium closed. Further loads and saves fail.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
