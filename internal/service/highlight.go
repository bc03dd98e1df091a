package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/id"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// HighlightService orchestrates highlight operations.
type HighlightService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewHighlightService creates a new highlight service.
func NewHighlightService(s *store.Store, v *validation.Validator, logger *slog.Logger) *HighlightService {
	return &HighlightService{
		store:     s,
		validator: v,
		logger:    logger,
	}
}

// AddHighlight stores a new highlight. An empty ID gets a generated one.
// The book reference is soft: highlights for unknown ISBNs are accepted.
func (s *HighlightService) AddHighlight(ctx context.Context, highlight domain.Highlight) (*domain.Highlight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if highlight.ID == "" {
		hid, err := id.Generate(id.PrefixHighlight)
		if err != nil {
			return nil, fmt.Errorf("generate highlight id: %w", err)
		}
		highlight.ID = hid
	}
	if highlight.CreatedAt.IsZero() {
		highlight.CreatedAt = time.Now()
	}

	if err := s.validator.Validate(&highlight); err != nil {
		return nil, err
	}

	if err := s.store.Highlights.Put(ctx, highlight.ID, &highlight); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("highlight added",
			"highlight_id", highlight.ID,
			"book_isbn", highlight.BookISBN,
		)
	}
	return &highlight, nil
}

// GetHighlights lists every stored highlight.
func (s *HighlightService) GetHighlights(ctx context.Context) ([]*domain.Highlight, error) {
	return s.store.Highlights.List(ctx)
}

// GetHighlightsForBook lists the highlights referencing one ISBN.
func (s *HighlightService) GetHighlightsForBook(ctx context.Context, isbn string) ([]*domain.Highlight, error) {
	var out []*domain.Highlight
	for h, err := range s.store.Highlights.All(ctx) {
		if err != nil {
			return nil, err
		}
		if h.BookISBN == isbn {
			out = append(out, h)
		}
	}
	return out, nil
}

// DeleteHighlight removes a highlight. Returns false when none existed.
func (s *HighlightService) DeleteHighlight(ctx context.Context, highlightID string) (bool, error) {
	return s.store.Highlights.Delete(ctx, highlightID)
}
