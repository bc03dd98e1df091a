package service

import (
	"context"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Hydrator is the single place soft references get resolved. Collections and
// challenges store book ISBNs that may point at deleted books; hydration
// drops the dangling entries from the returned view without ever mutating
// the stored membership list. Challenge status and counts are computed here
// on every read, never persisted.
type Hydrator struct {
	store *store.Store
}

// NewHydrator creates a hydrator over the given store.
func NewHydrator(s *store.Store) *Hydrator {
	return &Hydrator{store: s}
}

// resolveBooks fetches each referenced book, silently skipping ISBNs with no
// matching record. Absence of a referent is a normal outcome, not an error.
func (h *Hydrator) resolveBooks(ctx context.Context, isbns []string) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(isbns))
	for _, isbn := range isbns {
		book, err := h.store.Books.Get(ctx, isbn)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, nil
}

// Collection resolves a collection's book references into a hydrated view.
func (h *Hydrator) Collection(ctx context.Context, c *domain.Collection) (*domain.CollectionView, error) {
	books, err := h.resolveBooks(ctx, c.Books)
	if err != nil {
		return nil, err
	}
	return &domain.CollectionView{
		Collection:    *c,
		HydratedBooks: books,
	}, nil
}

// Challenge resolves a challenge's book references and computes the derived
// progress fields. A book counts as completed only when its reading progress
// exists and is exactly 100%.
func (h *Hydrator) Challenge(ctx context.Context, c *domain.Challenge) (*domain.ChallengeView, error) {
	books, err := h.resolveBooks(ctx, c.Books)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, book := range books {
		progress, err := h.store.Progress.Get(ctx, book.ISBN)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if progress.IsComplete() {
			completed++
		}
	}

	return &domain.ChallengeView{
		Challenge:        *c,
		HydratedBooks:    books,
		BooksInChallenge: len(books),
		CompletedCount:   completed,
		Status:           c.StatusFor(completed),
	}, nil
}
