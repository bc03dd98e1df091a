package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic table operations for a domain type. Tables are
// independently addressable prefix ranges of the shared keyspace; there is no
// foreign-key enforcement here, referential integrity is resolved at read
// time by the hydration layer.
type Entity[T any] struct {
	store  *Store
	prefix string
}

// NewEntity creates a new Entity instance for type T under the given prefix.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix}
}

// Put inserts or replaces the entity stored under id.
func (e *Entity[T]) Put(ctx context.Context, id string, entity *T) error {
	if err := e.store.requireInit(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%sput: empty id", e.prefix)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	key := []byte(e.prefix + id)
	err = e.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Get retrieves an entity by id.
// Returns a NOT_FOUND error if no record exists; callers treat that as a
// routine absence, not a failure.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := e.store.requireInit(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(e.prefix + id)
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
	})
	if err != nil {
		return nil, classify(err)
	}
	return &entity, nil
}

// Exists reports whether an entity is stored under id.
func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	if err := e.store.requireInit(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.store.exists([]byte(e.prefix + id))
	if err != nil {
		return false, classify(err)
	}
	return ok, nil
}

// Delete removes the entity stored under id.
// Returns true if a record was removed, false if none existed.
func (e *Entity[T]) Delete(ctx context.Context, id string) (bool, error) {
	if err := e.store.requireInit(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(e.prefix + id)
	existed := false

	err := e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, classify(err)
	}
	return existed, nil
}

// All returns an iterator over all entities in the table.
func (e *Entity[T]) All(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		if err := e.store.requireInit(); err != nil {
			yield(nil, err)
			return
		}

		prefix := []byte(e.prefix)
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}
			return nil
		})
	}
}

// List collects every entity in the table into a slice.
func (e *Entity[T]) List(ctx context.Context) ([]*T, error) {
	var out []*T
	for entity, err := range e.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// Count returns the number of entities in the table without decoding values.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	if err := e.store.requireInit(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := []byte(e.prefix)
	n := 0
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}
