package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// ProfileService orchestrates the single user profile and the settings row.
type ProfileService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(s *store.Store, v *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     s,
		validator: v,
		logger:    logger,
	}
}

// GetUser retrieves the local profile.
// Returns a NOT_FOUND error when no profile has been created yet.
func (s *ProfileService) GetUser(ctx context.Context) (*domain.User, error) {
	return s.store.GetUser(ctx)
}

// SetUser stores the profile, replacing any existing one. An empty ID gets a
// generated UUID.
func (s *ProfileService) SetUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.InitTimestamps()

	if err := s.validator.Validate(&user); err != nil {
		return nil, err
	}
	if err := s.store.SetUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetSettings retrieves the settings row (empty mapping when unset).
func (s *ProfileService) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings merges patch into the settings row and returns the result.
func (s *ProfileService) UpdateSettings(ctx context.Context, patch domain.Settings) (domain.Settings, error) {
	merged, err := s.store.MergeSettings(ctx, patch)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("settings updated", "keys", len(patch))
	}
	return merged, nil
}
