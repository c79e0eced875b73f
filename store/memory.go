// ABOUTME: In-memory key-ordered map store, the BTreeMap-style backend used by tests and --store=memory.
// ABOUTME: Keys stay sorted on insert so Values always iterates in key order.
package store

import (
	"sort"

	"github.com/2389-research/kanban/board"
)

// Memory is a key-ordered map that satisfies board.Map. It is not safe for
// concurrent writers; the web server serializes access. Values implementing
// Clone() V are copied on the way in and out, so callers never alias stored
// records.
type Memory[V any] struct {
	data map[string]V
	keys []string
}

type cloner[V any] interface {
	Clone() V
}

func clone[V any](v V) V {
	if c, ok := any(v).(cloner[V]); ok {
		return c.Clone()
	}
	return v
}

// NewMemory creates an empty Memory map.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{data: make(map[string]V)}
}

// Get retrieves the value stored under key.
func (m *Memory[V]) Get(key string) (V, bool, error) {
	v, ok := m.data[key]
	return clone(v), ok, nil
}

// Insert stores value under key and returns the value it replaced, if any.
func (m *Memory[V]) Insert(key string, value V) (V, bool, error) {
	prev, exists := m.data[key]
	if !exists {
		i := sort.SearchStrings(m.keys, key)
		m.keys = append(m.keys, "")
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	m.data[key] = clone(value)
	return prev, exists, nil
}

// Remove deletes key and returns the value it held, if any.
func (m *Memory[V]) Remove(key string) (V, bool, error) {
	prev, exists := m.data[key]
	if !exists {
		return prev, false, nil
	}
	delete(m.data, key)
	i := sort.SearchStrings(m.keys, key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	return prev, true, nil
}

// Values returns all values in key order.
func (m *Memory[V]) Values() ([]V, error) {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, clone(m.data[k]))
	}
	return out, nil
}

// Count returns the number of entries.
func (m *Memory[V]) Count() (int, error) {
	return len(m.data), nil
}

// Keys returns all keys in sorted order.
func (m *Memory[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MemorySettings keeps the board configuration in process memory.
type MemorySettings struct {
	cfg *board.Configuration
}

// NewMemorySettings returns an empty settings store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{}
}

// LoadConfiguration returns the saved configuration, if any.
func (s *MemorySettings) LoadConfiguration() (board.Configuration, bool, error) {
	if s.cfg == nil {
		return board.Configuration{}, false, nil
	}
	return *s.cfg, true, nil
}

// SaveConfiguration replaces the saved configuration.
func (s *MemorySettings) SaveConfiguration(cfg board.Configuration) error {
	s.cfg = &cfg
	return nil
}

// Compile-time interface checks.
var (
	_ board.Map[board.Card]           = (*Memory[board.Card])(nil)
	_ board.Map[board.TransitionRule] = (*Memory[board.TransitionRule])(nil)
	_ board.SettingsStore             = (*MemorySettings)(nil)
)
