package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// keySettings holds the single process-wide settings row.
const keySettings = "settings"

// GetSettings retrieves the settings row. Returns an empty mapping if none
// has been written yet.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := domain.Settings{}
	err := s.get([]byte(keySettings), &settings)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return settings, nil
}

// MergeSettings applies patch key-by-key into the stored row and returns the
// merged result. The read-modify-write is serialized on the settings key so
// concurrent patches cannot drop each other's entries.
func (s *Store) MergeSettings(ctx context.Context, patch domain.Settings) (domain.Settings, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keySettings)
	defer unlock()

	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	merged := current.Merge(patch)
	if err := s.set([]byte(keySettings), merged); err != nil {
		return nil, classify(err)
	}
	return merged, nil
}
