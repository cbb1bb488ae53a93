package room

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/parlorhq/parlor/character"
	"github.com/parlorhq/parlor/core"
)

// Hub hands out exactly one live Session per room. Sessions are created
// lazily at room-open time with the member roster resolved from the
// character registry; unknown member ids are dropped from the roster.
type Hub struct {
	store    Store
	registry *character.Registry

	mu       sync.Mutex
	sessions map[string]*core.Session
}

// NewHub creates a hub over a room store and character registry.
func NewHub(store Store, registry *character.Registry) *Hub {
	return &Hub{store: store, registry: registry, sessions: map[string]*core.Session{}}
}

// Session returns the live session for a room, creating it on first use.
// Turns of distinct rooms run against distinct sessions and never block one
// another.
func (h *Hub) Session(ctx context.Context, roomID string) (*core.Session, error) {
	h.mu.Lock()
	if sess, ok := h.sessions[roomID]; ok {
		h.mu.Unlock()
		return sess, nil
	}
	h.mu.Unlock()

	r, err := h.store.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	all, err := h.registry.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve roster for room %s: %w", roomID, err)
	}
	byID := lo.KeyBy(all, func(p core.Participant) string { return p.ID })
	members := make([]core.Participant, 0, len(r.MemberIDs))
	for _, id := range r.MemberIDs {
		if p, ok := byID[id]; ok {
			members = append(members, p)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if sess, ok := h.sessions[roomID]; ok {
		return sess, nil
	}
	sess := core.NewSession(roomID, members)
	h.sessions[roomID] = sess
	return sess, nil
}
