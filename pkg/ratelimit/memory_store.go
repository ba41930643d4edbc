package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Sweeper = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Apply(_ context.Context, key string, fn func(Entry, bool) (Entry, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, found := s.entries[key]
	next, write := fn(cur, found)
	if write {
		s.entries[key] = next
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return e, ok, nil
}

// Sweep removes entries whose window has elapsed and returns how many were dropped.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
