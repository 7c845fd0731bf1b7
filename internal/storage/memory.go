package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory Port used by tests and ephemeral runs.
type Memory struct {
	mu     sync.Mutex
	tables map[Table]map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	m := &Memory{tables: map[Table]map[string][]byte{}}
	for table := range knownTables {
		m.tables[table] = map[string][]byte{}
	}
	return m
}

func (m *Memory) check(table Table) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if m.closed {
		return storageErr("access", table, fmt.Errorf("store is closed"))
	}
	return nil
}

// Get implements Port.
func (m *Memory) Get(_ context.Context, table Table, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return nil, err
	}
	value, ok := m.tables[table][key]
	if !ok {
		return nil, notFound(table, key)
	}
	return clone(value), nil
}

// GetAll implements Port.
func (m *Memory) GetAll(_ context.Context, table Table) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m.tables[table]))
	for key := range m.tables[table] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := make([][]byte, 0, len(keys))
	for _, key := range keys {
		values = append(values, clone(m.tables[table][key]))
	}
	return values, nil
}

// Insert implements Port.
func (m *Memory) Insert(_ context.Context, table Table, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return err
	}
	if _, ok := m.tables[table][key]; ok {
		return storageErr("insert", table, fmt.Errorf("record %q already exists", key))
	}
	m.tables[table][key] = clone(value)
	return nil
}

// Put implements Port.
func (m *Memory) Put(_ context.Context, table Table, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return err
	}
	m.tables[table][key] = clone(value)
	return nil
}

// Delete implements Port.
func (m *Memory) Delete(_ context.Context, table Table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return err
	}
	delete(m.tables[table], key)
	return nil
}

// Update implements Port.
func (m *Memory) Update(_ context.Context, table Table, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(table); err != nil {
		return err
	}
	var current []byte
	if value, ok := m.tables[table][key]; ok {
		current = clone(value)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	m.tables[table][key] = clone(next)
	return nil
}

// Close implements Port. Later calls fail with a storage error.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
