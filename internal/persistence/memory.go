package persistence

import (
	"context"
	"sync"
)

// MemoryKV keeps entries in process memory. It backs tests and the
// single-process "memory" backend; data does not survive restarts.
type MemoryKV struct {
	mu        sync.RWMutex
	namespace string
	entries   map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV(namespace string) *MemoryKV {
	return &MemoryKV{namespace: namespace, entries: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[namespacedKey(m.namespace, key)]
	return val, ok, nil
}

func (m *MemoryKV) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[namespacedKey(m.namespace, key)] = value
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := namespacedKey(m.namespace, key)
	_, ok := m.entries[k]
	delete(m.entries, k)
	return ok, nil
}

func (m *MemoryKV) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored entries.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
