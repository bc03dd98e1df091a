// Package search provides full-text search over the book library using Bleve.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// Index wraps a Bleve index with book-specific operations.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects against index corruption during rebuild operations.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses default if nil)
}

// NewIndex creates or opens a search index under DataPath.
// A corrupted index is removed and recreated rather than failing startup;
// callers should rebuild from the store afterward.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "search.bleve")

	var index bleve.Index
	var err error

	if _, statErr := os.Stat(indexPath); statErr == nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing search index, recreating",
				"path", indexPath,
				"error", err,
			)
			if rmErr := os.RemoveAll(indexPath); rmErr != nil {
				return nil, fmt.Errorf("remove corrupt index: %w", rmErr)
			}
			index = nil
		}
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create search index: %w", err)
		}
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// buildIndexMapping creates the Bleve mapping for book documents: full-text
// search on title/author with English stemming, exact keyword match on genre.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = en.AnalyzerName
	titleMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleMapping)

	authorMapping := bleve.NewTextFieldMapping()
	authorMapping.Analyzer = en.AnalyzerName
	authorMapping.Store = true
	docMapping.AddFieldMappingsAt("author", authorMapping)

	genreMapping := bleve.NewTextFieldMapping()
	genreMapping.Analyzer = keyword.Name
	genreMapping.Store = true
	docMapping.AddFieldMappingsAt("genre", genreMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// document is the indexed representation of a book.
type document struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// IndexBook adds or updates a book in the index.
func (i *Index) IndexBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	doc := document{
		Title:  book.Title,
		Author: book.Author,
		Genre:  book.Genre,
	}
	return i.index.Index(book.ISBN, doc)
}

// DeleteBook removes a book from the index.
func (i *Index) DeleteBook(ctx context.Context, isbn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.index.Delete(isbn)
}

// Rebuild drops the index and re-indexes the given books from scratch.
func (i *Index) Rebuild(ctx context.Context, books []*domain.Book) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(i.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}
	fresh, err := bleve.New(i.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}
	i.index = fresh

	batch := i.index.NewBatch()
	for _, book := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := batch.Index(book.ISBN, document{
			Title:  book.Title,
			Author: book.Author,
			Genre:  book.Genre,
		}); err != nil {
			return fmt.Errorf("batch index %s: %w", book.ISBN, err)
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("apply index batch: %w", err)
	}

	i.logger.Info("search index rebuilt", "books", len(books))
	return nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}
