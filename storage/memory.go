package storage

import (
	"context"
	"maps"
	"sync"
)

// Memory is a map-backed Gateway. Injected errors make writes fail for tests.
type Memory struct {
	mu     sync.Mutex
	values map[Key][]byte

	getErr map[Key]error
	setErr map[Key]error
	sets   int
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[Key][]byte),
		getErr: make(map[Key]error),
		setErr: make(map[Key]error),
	}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.getErr[key]; err != nil {
		return nil, false, err
	}
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value.
func (m *Memory) Set(ctx context.Context, key Key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setErr[key]; err != nil {
		return err
	}
	m.values[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(ctx context.Context, key Key) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setErr[key]; err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// FailGet makes every Get for key return err. A nil err clears the failure.
func (m *Memory) FailGet(key Key, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.getErr, key)
		return
	}
	m.getErr[key] = err
}

// FailSet makes every Set and Remove for key return err. A nil err clears the failure.
func (m *Memory) FailSet(key Key, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.setErr, key)
		return
	}
	m.setErr[key] = err
}

// Sets returns the number of successful writes.
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// Snapshot returns a copy of every stored value.
func (m *Memory) Snapshot() map[Key][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}
