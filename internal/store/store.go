// Package store persists library entities in an embedded Badger database.
//
// Each entity type lives under its own key prefix ("book:", "collection:", ...)
// and is accessed through a generic Entity handle providing upsert semantics.
// Compound operations that must be atomic (book metadata plus payload sidecar)
// are wrapped in a single Badger transaction; read-modify-write operations on
// one entity id are serialized through a per-key mutex.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

// schemaKey marks an initialized store. Operations other than Init fail with
// a NOT_INITIALIZED error until the marker exists.
const schemaKey = "meta:schema"

// schemaVersion is bumped on breaking keyspace changes.
const schemaVersion = "1"

// Store wraps a Badger database instance holding every entity table.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	ready  atomic.Bool
	locks  *KeyMutex

	Books     *Entity[domain.Book]
	BookFiles *Entity[domain.BookFile]

	Collections *Entity[domain.Collection]
	Challenges  *Entity[domain.Challenge]
	Highlights  *Entity[domain.Highlight]
	Progress    *Entity[domain.ReadingProgress]
}

// Open opens the database at path. The store is not usable until Init has
// been called (Init is idempotent and cheap, callers may always invoke it).
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		locks:  NewKeyMutex(),
	}

	s.Books = NewEntity[domain.Book](s, "book:")
	s.BookFiles = NewEntity[domain.BookFile](s, "file:")
	s.Collections = NewEntity[domain.Collection](s, "collection:")
	s.Challenges = NewEntity[domain.Challenge](s, "challenge:")
	s.Highlights = NewEntity[domain.Highlight](s, "highlight:")
	s.Progress = NewEntity[domain.ReadingProgress](s, "progress:")

	// An already-initialized database is ready immediately.
	exists, err := s.exists([]byte(schemaKey))
	if err != nil {
		_ = db.Close()
		return nil, classify(err)
	}
	s.ready.Store(exists)

	if logger != nil {
		logger.Info("database opened", "path", path, "initialized", exists)
	}

	return s, nil
}

// Init creates the schema marker. Idempotent: calling it on an initialized
// store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.ready.Load() {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(schemaKey), []byte(schemaVersion))
	})
	if err != nil {
		return classify(err)
	}

	s.ready.Store(true)
	if s.logger != nil {
		s.logger.Info("store initialized", "schema_version", schemaVersion)
	}
	return nil
}

// Initialized reports whether Init has completed for this store.
func (s *Store) Initialized() bool {
	return s.ready.Load()
}

// requireInit gates every data operation on initialization.
func (s *Store) requireInit() error {
	if !s.ready.Load() {
		return apperrors.NotInitialized("store not initialized: call Init first")
	}
	return nil
}

// ClearAll empties every table. The store stays initialized afterward.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.requireInit(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.DropAll(); err != nil {
		return classify(err)
	}

	// DropAll removes the schema marker too; restore it.
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(schemaKey), []byte(schemaVersion))
	})
	if err != nil {
		return classify(err)
	}

	if s.logger != nil {
		s.logger.Info("all data cleared")
	}
	return nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// Lock serializes read-modify-write sequences on a single entity id.
// The returned func releases the lock.
func (s *Store) Lock(id string) func() {
	return s.locks.Lock(id)
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
