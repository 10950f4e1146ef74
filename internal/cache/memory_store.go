package cache

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps entries in a thread-safe map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get retrieves an entry by key.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if ok {
		e.Payload = append([]byte(nil), e.Payload...)
	}
	return e, ok, nil
}

// Set replaces the entry stored under entry.Key.
func (s *MemoryStore) Set(_ context.Context, entry Entry) error {
	entry.Payload = append([]byte(nil), entry.Payload...)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = entry
	return nil
}

// DeleteTeam drops every entry for team.
func (s *MemoryStore) DeleteTeam(_ context.Context, team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if strings.EqualFold(e.Team, team) {
			delete(s.entries, k)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
