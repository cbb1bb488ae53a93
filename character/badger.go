package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const charPrefix = "character:"

// BadgerStore persists custom characters in BadgerDB under a key prefix,
// JSON encoded. The DB handle is shared with other repositories and owned by
// the caller.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open Badger database.
func NewBadgerStore(db *badger.DB) *BadgerStore { return &BadgerStore{db: db} }

// Put stores or replaces a custom character.
func (s *BadgerStore) Put(_ context.Context, c Custom) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode character %s: %w", c.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(charPrefix+c.ID), data)
	})
}

// Get returns the character with the exact identifier or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, id string) (Custom, error) {
	var c Custom
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(charPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &c)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Custom{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Custom{}, fmt.Errorf("fetch character %s: %w", id, err)
	}
	return c, nil
}

// List returns all custom characters in key order.
func (s *BadgerStore) List(_ context.Context) ([]Custom, error) {
	var out []Custom
	prefix := []byte(charPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var c Custom
				if err := json.Unmarshal(v, &c); err != nil {
					return fmt.Errorf("decode character: %w", err)
				}
				out = append(out, c)
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
	return out, nil
}

// Delete removes a custom character; deleting a missing id is a no-op.
func (s *BadgerStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(charPrefix + id))
	})
}
