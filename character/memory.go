package character

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemoryStore is a volatile Store keeping custom characters in a process
// local map. Safe for concurrent use; intended for tests and demos.
type InMemoryStore struct {
	mu    sync.RWMutex
	chars map[string]Custom
}

// NewInMemoryStore constructs an empty in-memory character store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{chars: map[string]Custom{}}
}

// Put stores or replaces a custom character.
func (s *InMemoryStore) Put(_ context.Context, c Custom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chars[c.ID] = c
	return nil
}

// Get returns the character with the exact identifier or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, id string) (Custom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[id]
	if !ok {
		return Custom{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, nil
}

// List returns all custom characters ordered by identifier.
func (s *InMemoryStore) List(_ context.Context) ([]Custom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Custom, 0, len(s.chars))
	for _, c := range s.chars {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a custom character; deleting a missing id is a no-op.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chars, id)
	return nil
}
