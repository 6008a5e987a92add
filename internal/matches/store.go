// Package matches provides a generic keyed accumulator for per-document
// match records. Variant matchers configure its behavior by injecting a
// merge function instead of subclassing anything.
package matches

import (
	"sort"
	"sync"
)

// Key identifies one (stored query, document) observation.
type Key struct {
	QueryID string
	DocID   string
}

// MergeFunc combines two match records observed for the same key. It must
// not discard information from either side.
type MergeFunc[T any] func(existing, incoming T) T

// Store accumulates match records keyed by (query, document). Put and Get
// are safe for concurrent use, and merges for one key are serialized, so
// multiple evaluation passes or an outer concurrent runner never lose
// observations.
type Store[T any] struct {
	mu      sync.RWMutex
	merge   MergeFunc[T]
	entries map[Key]T
}

// NewStore creates a Store using merge to combine duplicate observations.
func NewStore[T any](merge MergeFunc[T]) *Store[T] {
	return &Store[T]{
		merge:   merge,
		entries: make(map[Key]T),
	}
}

// Put records a match. If the key is already present the existing and
// incoming records are combined with the injected merge function.
func (s *Store[T]) Put(k Key, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[k]; ok {
		s.entries[k] = s.merge(existing, v)
		return
	}
	s.entries[k] = v
}

// Get returns the record for the key, if present.
func (s *Store[T]) Get(k Key) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[k]
	return v, ok
}

// Len returns the number of distinct keys stored.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns every stored record, ordered by (QueryID, DocID) so callers
// see deterministic output regardless of emission order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].QueryID != keys[j].QueryID {
			return keys[i].QueryID < keys[j].QueryID
		}
		return keys[i].DocID < keys[j].DocID
	})

	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = s.entries[k]
	}
	return out
}
