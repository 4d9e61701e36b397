package store

import (
	"context"
	"sync"
)

// KV is the key-value contract the contract core runs against. Implementations
// must treat keys as opaque bytes; a Get on an absent key reports ok=false with
// no error.
type KV interface {
	Get(ctx context.Context, key []byte) (value []byte, ok bool, err error)
	Set(ctx context.Context, key, value []byte) error
	Remove(ctx context.Context, key []byte) error
	Contains(ctx context.Context, key []byte) (bool, error)
	Close() error
}

// --- In-Memory store (tests, benchmarks) ---

type Mem struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMem() *Mem {
	return &Mem{data: make(map[string][]byte)}
}

func (m *Mem) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Mem) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[string(key)] = stored
	return nil
}

func (m *Mem) Remove(_ context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *Mem) Contains(_ context.Context, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// Close satisfies the KV interface; nothing to release.
func (m *Mem) Close() error {
	return nil
}
