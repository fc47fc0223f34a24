package state

import (
	"maps"
	"slices"
)

// MemStore is an in-memory switch store. It is not safe for concurrent use.
type MemStore struct {
	values map[Key]bool
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[Key]bool)}
}

// Value returns the stored value, false when the key was never written.
func (m *MemStore) Value(key Key) (bool, error) {
	return m.values[key], nil
}

// SetValue stores value under key.
func (m *MemStore) SetValue(key Key, value bool) error {
	if m.values == nil {
		m.values = make(map[Key]bool)
	}
	m.values[key] = value
	return nil
}

// Atomically runs fn and restores the previous contents if it fails.
func (m *MemStore) Atomically(fn func(rw ReadWriter) error) error {
	snapshot := maps.Clone(m.values)
	if err := fn(m); err != nil {
		m.values = snapshot
		return err
	}
	return nil
}

// Len is the number of keys ever written.
func (m *MemStore) Len() int {
	return len(m.values)
}

// Entries returns every written key in key order.
func (m *MemStore) Entries() []Entry {
	keys := slices.SortedFunc(maps.Keys(m.values), Key.Compare)
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k, Value: m.values[k]}
	}
	return out
}
