package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MemStore is a map-backed Store for tests and ephemeral runs.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage

	// FailWrites makes Set return an error, for exercising the
	// swallow-and-log path in domain stores.
	FailWrites bool
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]json.RawMessage)}
}

func (m *MemStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return cp, nil
}

func (m *MemStore) Set(ctx context.Context, key string, value any) error {
	if m.FailWrites {
		return errors.Join(ErrWrite, errors.New("writes disabled"))
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *MemStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
