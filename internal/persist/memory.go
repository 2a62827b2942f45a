package persist

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process RemoteStore for tests and offline use.
// It stores fields flat by full path, matching the update granularity
// of the real backend.
type MemoryStore struct {
	mu     sync.Mutex
	fields map[string]string
	writes int
	fail   error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fields: make(map[string]string)}
}

// Get returns the value at the path.
func (m *MemoryStore) Get(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return "", m.fail
	}
	v, ok := m.fields[path]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores one field.
func (m *MemoryStore) Set(_ context.Context, path, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.fields[path] = value
	m.writes++
	return nil
}

// Update applies a field batch as one write; nil values delete.
func (m *MemoryStore) Update(_ context.Context, fields map[string]*string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for path, v := range fields {
		if v == nil {
			delete(m.fields, path)
		} else {
			m.fields[path] = *v
		}
	}
	m.writes++
	return nil
}

// Delete removes one field.
func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	delete(m.fields, path)
	m.writes++
	return nil
}

// WriteCount returns how many write operations have been applied.
func (m *MemoryStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// SetFailing makes subsequent operations return err; nil restores
// normal operation.
func (m *MemoryStore) SetFailing(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Paths returns every stored path with the given prefix, unordered.
func (m *MemoryStore) Paths(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.fields {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}
