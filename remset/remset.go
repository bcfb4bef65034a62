// Package remset implements the remembered set: a global, lock-protected
// list of Old-generation body pointers that hold a reference into Young,
// recorded by the write barrier so a minor cycle doesn't have to rescan
// every Old body to find Old→Young edges.
package remset

import (
	"sync"

	"zheap/pointer"
)

// Set is a lock-protected remembered set.
type Set struct {
	mu      sync.Mutex
	entries []pointer.Ptr
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Add records body as a source of a cross-generational write. Duplicates
// are permitted.
func (s *Set) Add(body pointer.Ptr) {
	s.mu.Lock()
	s.entries = append(s.entries, body)
	s.mu.Unlock()
}

// Pop removes and returns one entry. ok is false when the set is empty.
func (s *Set) Pop() (body pointer.Ptr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	if n == 0 {
		return 0, false
	}
	body = s.entries[n-1]
	s.entries = s.entries[:n-1]
	return body, true
}

// IsEmpty reports whether the set currently holds no entries.
func (s *Set) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) == 0
}

// Drain pops every entry, in unspecified order, and returns them as a
// slice. Used at the start of a minor mark phase.
func (s *Set) Drain() []pointer.Ptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.entries
	s.entries = nil
	return out
}
