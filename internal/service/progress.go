package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/store"
)

// ProgressService orchestrates reading-progress operations.
type ProgressService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProgressService creates a new progress service.
func NewProgressService(s *store.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{store: s, logger: logger}
}

// GetReadingProgress retrieves the progress record for an ISBN.
// Returns a NOT_FOUND error for books never opened; callers treat that as
// routine.
func (s *ProgressService) GetReadingProgress(ctx context.Context, isbn string) (*domain.ReadingProgress, error) {
	return s.store.Progress.Get(ctx, isbn)
}

// GetAllProgress lists every progress record.
func (s *ProgressService) GetAllProgress(ctx context.Context) ([]*domain.ReadingProgress, error) {
	return s.store.Progress.List(ctx)
}

// UpdateReadingProgress upserts the progress record for an ISBN. Concurrent
// updates for the same book resolve last-write-wins by timestamp: an update
// stamped earlier than the stored record is dropped and the stored record
// returned unchanged. A zero timestamp means "now".
func (s *ProgressService) UpdateReadingProgress(ctx context.Context, isbn string, percentage float64, cfi string, at time.Time) (*domain.ReadingProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isbn == "" {
		return nil, apperrors.Validation("progress isbn is required")
	}
	if percentage < 0 || percentage > 100 {
		return nil, apperrors.Validationf("progress percentage %v out of range 0-100", percentage)
	}
	if at.IsZero() {
		at = time.Now()
	}

	unlock := s.store.Lock("progress:" + isbn)
	defer unlock()

	existing, err := s.store.Progress.Get(ctx, isbn)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.UpdatedAt.After(at) {
		// A newer write already landed; last write wins.
		return existing, nil
	}

	progress := &domain.ReadingProgress{
		ISBN:              isbn,
		CurrentPercentage: percentage,
		CurrentCFI:        cfi,
		UpdatedAt:         at,
	}
	if err := s.store.Progress.Put(ctx, isbn, progress); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Debug("reading progress updated",
			"isbn", isbn,
			"percentage", percentage,
		)
	}
	return progress, nil
}
