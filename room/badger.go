package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/parlorhq/parlor/core"
)

const roomPrefix = "room:"

// BadgerStore persists rooms in BadgerDB under a key prefix, JSON encoded.
// The DB handle is shared with other repositories and owned by the caller.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open Badger database.
func NewBadgerStore(db *badger.DB) *BadgerStore { return &BadgerStore{db: db} }

// Create stores a room.
func (s *BadgerStore) Create(_ context.Context, r core.Room) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", r.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(roomPrefix+r.ID), data)
	})
}

// Get returns the room or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, id string) (core.Room, error) {
	var r core.Room
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(roomPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return core.Room{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return core.Room{}, fmt.Errorf("fetch room %s: %w", id, err)
	}
	return r, nil
}

// List returns rooms owned by ownerID, newest first. An empty ownerID lists
// every room.
func (s *BadgerStore) List(_ context.Context, ownerID string) ([]core.Room, error) {
	var out []core.Room
	prefix := []byte(roomPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var r core.Room
				if err := json.Unmarshal(v, &r); err != nil {
					return fmt.Errorf("decode room: %w", err)
				}
				if ownerID == "" || r.OwnerID == ownerID {
					out = append(out, r)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
