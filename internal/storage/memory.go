package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory implementation of Storage.
type MemoryStorage struct {
	slots map[string]string
	mu    sync.RWMutex
}

// NewMemoryStorage creates a new instance of MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		slots: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.slots[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = value
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }
