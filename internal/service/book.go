// Package service provides the business logic layer over the entity store,
// payload store, and search index. It is the boundary consumed by the CLI
// and any other collaborator.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/epub"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/id"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// Indexer is the interface for keeping the search index in sync with book
// mutations, without depending on the search implementation.
type Indexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, isbn string) error
}

// NoopIndexer is a no-op implementation of Indexer for testing.
type NoopIndexer struct{}

// IndexBook implements Indexer.IndexBook as a no-op.
func (NoopIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook implements Indexer.DeleteBook as a no-op.
func (NoopIndexer) DeleteBook(context.Context, string) error { return nil }

// BookService orchestrates book metadata and payload operations.
type BookService struct {
	store     *store.Store
	payloads  *payload.Store
	indexer   Indexer
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(s *store.Store, p *payload.Store, indexer Indexer, v *validation.Validator, logger *slog.Logger) *BookService {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &BookService{
		store:     s,
		payloads:  p,
		indexer:   indexer,
		validator: v,
		logger:    logger,
	}
}

// AddBook stores book metadata and, when fileData is non-nil, its payload.
// An empty ISBN gets a generated identifier. The metadata write and the
// payload write are atomic as a pair: the payload is written first, and if
// the metadata commit fails the payload is removed again so no orphan is
// left on either side.
func (s *BookService) AddBook(ctx context.Context, book domain.Book, fileData io.Reader, fileName string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if book.ISBN == "" {
		isbn, err := id.Generate("bk")
		if err != nil {
			return nil, fmt.Errorf("generate book id: %w", err)
		}
		book.ISBN = isbn
	}
	book.InitTimestamps()

	if err := s.validator.Validate(&book); err != nil {
		return nil, err
	}

	if fileData == nil {
		// Metadata-only import.
		if err := s.store.Books.Put(ctx, book.ISBN, &book); err != nil {
			return nil, err
		}
	} else {
		if fileName == "" {
			fileName = book.ISBN + payload.DefaultExt
		}
		ext := payload.Ext(fileName)

		size, err := s.payloads.Save(book.ISBN, ext, fileData)
		if err != nil {
			return nil, fmt.Errorf("save payload: %w", err)
		}

		file := &domain.BookFile{
			ISBN:     book.ISBN,
			FileName: fileName,
			MimeType: domain.DefaultEpubMimeType,
			Size:     size,
		}

		if err := s.store.PutBookWithFile(ctx, &book, file); err != nil {
			// Compensating cleanup: the metadata commit failed, so the
			// payload written above must not survive as an orphan.
			if rmErr := s.payloads.Delete(book.ISBN, ext); rmErr != nil && s.logger != nil {
				s.logger.Warn("failed to clean up orphaned payload",
					"isbn", book.ISBN,
					"error", rmErr,
				)
			}
			return nil, err
		}
	}

	if err := s.indexer.IndexBook(ctx, &book); err != nil && s.logger != nil {
		s.logger.Warn("failed to index book", "isbn", book.ISBN, "error", err)
	}

	if s.logger != nil {
		s.logger.Info("book added",
			"isbn", book.ISBN,
			"title", book.Title,
			"has_file", fileData != nil,
		)
	}
	return &book, nil
}

// AddBookFromEpub reads metadata out of EPUB bytes and adds the book with
// its payload. Fields already set on the hint take precedence over sniffed
// metadata.
func (s *BookService) AddBookFromEpub(ctx context.Context, hint domain.Book, epubData []byte, fileName string) (*domain.Book, error) {
	meta, err := epub.ReadMetadataFrom(bytes.NewReader(epubData), int64(len(epubData)))
	if err != nil {
		return nil, err
	}

	book := hint
	if book.Title == "" {
		book.Title = meta.Title
	}
	if book.Author == "" {
		book.Author = meta.Author
	}
	if book.ISBN == "" {
		book.ISBN = meta.ISBN
	}

	return s.AddBook(ctx, book, bytes.NewReader(epubData), fileName)
}

// GetBook retrieves book metadata by ISBN.
// Returns a NOT_FOUND error when absent; callers treat that as routine.
func (s *BookService) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.store.Books.Get(ctx, isbn)
}

// GetAllBooks lists every book's metadata.
func (s *BookService) GetAllBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.Books.List(ctx)
}

// GetBookFile opens a streaming reader over a book's payload along with its
// sidecar record. Returns a NOT_FOUND error when the book has no payload.
func (s *BookService) GetBookFile(ctx context.Context, isbn string) (io.ReadCloser, *domain.BookFile, error) {
	file, err := s.store.BookFiles.Get(ctx, isbn)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.payloads.Open(isbn, payload.Ext(file.FileName))
	if err != nil {
		return nil, nil, err
	}
	return rc, file, nil
}

// ReadBookFile loads a book's payload fully into memory.
func (s *BookService) ReadBookFile(ctx context.Context, isbn string) ([]byte, *domain.BookFile, error) {
	rc, file, err := s.GetBookFile(ctx, isbn)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, err
	}
	return data, file, nil
}

// DeleteBook removes a book's metadata, payload sidecar, and payload bytes.
// Collections and challenges referencing the ISBN are left untouched; their
// hydrated views simply stop listing the book. Returns false when no book
// existed.
func (s *BookService) DeleteBook(ctx context.Context, isbn string) (bool, error) {
	// Grab the sidecar before the delete so the payload extension is known.
	file, err := s.store.BookFiles.Get(ctx, isbn)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	existed, hadFile, err := s.store.DeleteBook(ctx, isbn)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}

	if hadFile && file != nil {
		if err := s.payloads.Delete(isbn, payload.Ext(file.FileName)); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete payload", "isbn", isbn, "error", err)
		}
	}

	if err := s.indexer.DeleteBook(ctx, isbn); err != nil && s.logger != nil {
		s.logger.Warn("failed to deindex book", "isbn", isbn, "error", err)
	}

	return true, nil
}
