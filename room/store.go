// Package room persists group rooms and hands out the live session owning
// each room's transcript.
package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/parlorhq/parlor/core"
)

// ErrNotFound is returned when a room id does not exist in the store.
var ErrNotFound = errors.New("room not found")

// Store persists rooms. Membership is immutable after Create.
type Store interface {
	Create(ctx context.Context, r core.Room) error
	Get(ctx context.Context, id string) (core.Room, error)
	List(ctx context.Context, ownerID string) ([]core.Room, error)
}

// InMemoryStore is a volatile Store for tests and demos.
type InMemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]core.Room
}

// NewInMemoryStore constructs an empty in-memory room store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rooms: map[string]core.Room{}}
}

// Create stores a room.
func (s *InMemoryStore) Create(_ context.Context, r core.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return nil
}

// Get returns the room or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, id string) (core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return core.Room{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// List returns rooms owned by ownerID, newest first. An empty ownerID lists
// every room.
func (s *InMemoryStore) List(_ context.Context, ownerID string) ([]core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if ownerID != "" && r.OwnerID != ownerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
