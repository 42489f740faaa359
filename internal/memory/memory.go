// Package memory provides an in-process KV store. Values are copied on the
// way in and out so callers never share buffers with the store.
package memory

import (
	"sync"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Store is a map-backed types.KV.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// NewWithData returns a store seeded with the given values.
func NewWithData(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.data[k] = clone(v)
	}
	return s
}

// Load returns a copy of the value saved under key.
func (s *Store) Load(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, types.ErrStoreClosed
	}
	if key == "" {
		return nil, false, types.ErrInvalidKey
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Save replaces the value under key.
func (s *Store) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrInvalidKey
	}
	s.data[key] = clone(data)
	return nil
}

// Close marks the store closed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func clone(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
