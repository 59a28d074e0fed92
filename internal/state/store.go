// Package state persists which upgrade wizards are done. The console only
// needs two operations from the host's persistence, so backends implement the
// narrow Store interface.
package state

import (
	"context"
	"sync"
)

// Store reads and writes per-wizard done flags.
type Store interface {
	// IsDone reports whether id was marked done. Unknown ids are not done.
	IsDone(ctx context.Context, id string) (bool, error)
	// MarkDone records id as done. Marking twice is harmless.
	MarkDone(ctx context.Context, id string) error
	Close() error
}

// MemoryStore keeps flags in memory. It also counts MarkDone calls so callers
// can verify how often a wizard was persisted.
type MemoryStore struct {
	mu    sync.Mutex
	done  map[string]bool
	marks map[string]int
}

// NewMemoryStore returns a store with the given ids already done.
func NewMemoryStore(done ...string) *MemoryStore {
	s := &MemoryStore{done: make(map[string]bool), marks: make(map[string]int)}
	for _, id := range done {
		s.done[id] = true
	}
	return s
}

// IsDone implements Store.
func (s *MemoryStore) IsDone(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[id], nil
}

// MarkDone implements Store.
func (s *MemoryStore) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[id] = true
	s.marks[id]++
	return nil
}

// Marks returns how many times id was marked done.
func (s *MemoryStore) Marks(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[id]
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
