package service

import (
	"context"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Seeder populates an empty library with a small starter data set so a fresh
// install has something to browse. Seeding is idempotent and skipped entirely
// when any book already exists.
type Seeder struct {
	store       *store.Store
	books       *BookService
	collections *CollectionService
	highlights  *HighlightService
	logger      *slog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(s *store.Store, books *BookService, collections *CollectionService, highlights *HighlightService, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:       s,
		books:       books,
		collections: collections,
		highlights:  highlights,
		logger:      logger,
	}
}

// Seed adds the starter books, one collection, and a couple of highlights.
// Returns true when data was written, false when the library already had
// books and seeding was skipped.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	count, err := s.store.Books.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		if s.logger != nil {
			s.logger.Debug("seed skipped, library not empty", "books", count)
		}
		return false, nil
	}

	starter := []domain.Book{
		{
			ISBN:      "9780140449136",
			Title:     "The Odyssey",
			Author:    "Homer",
			Genre:     "Classics",
			Thumbnail: "https://covers.openlibrary.org/b/isbn/9780140449136-M.jpg",
		},
		{
			ISBN:      "9780451524935",
			Title:     "1984",
			Author:    "George Orwell",
			Genre:     "Dystopian",
			Thumbnail: "https://covers.openlibrary.org/b/isbn/9780451524935-M.jpg",
		},
		{
			ISBN:      "9780618640157",
			Title:     "The Lord of the Rings",
			Author:    "J.R.R. Tolkien",
			Genre:     "Fantasy",
			Thumbnail: "https://covers.openlibrary.org/b/isbn/9780618640157-M.jpg",
		},
	}

	isbns := make([]string, 0, len(starter))
	for _, book := range starter {
		added, err := s.books.AddBook(ctx, book, nil, "")
		if err != nil {
			return false, err
		}
		isbns = append(isbns, added.ISBN)
	}

	if _, err := s.collections.AddCollection(ctx, domain.Collection{
		Name:        "Getting Started",
		Description: "A few classics to try Inkwell with.",
		Books:       isbns,
	}); err != nil {
		return false, err
	}

	if _, err := s.highlights.AddHighlight(ctx, domain.Highlight{
		BookISBN: "9780451524935",
		Text:     "It was a bright cold day in April, and the clocks were striking thirteen.",
		Color:    "yellow",
	}); err != nil {
		return false, err
	}

	if s.logger != nil {
		s.logger.Info("seeded starter library", "books", len(starter))
	}
	return true, nil
}
