package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// keyUser holds the single local profile. Writing a new profile replaces the
// previous one wholesale.
const keyUser = "user"

// GetUser retrieves the profile.
// Returns a NOT_FOUND error when no profile has been created.
func (s *Store) GetUser(ctx context.Context) (*domain.User, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.get([]byte(keyUser), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, classify(err)
	}
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// SetUser stores the profile, replacing any existing one.
func (s *Store) SetUser(ctx context.Context, user *domain.User) error {
	if err := s.requireInit(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.set([]byte(keyUser), user); err != nil {
		return classify(err)
	}
	if s.logger != nil {
		s.logger.Info("user profile stored", "user_id", user.ID)
	}
	return nil
}
