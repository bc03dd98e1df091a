package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell/internal/domain"
)

const (
	bookPrefix     = "book:"
	bookFilePrefix = "file:"
)

// PutBookWithFile writes a book's metadata and its payload sidecar in one
// transaction: either both records commit or neither does. The payload bytes
// themselves live in the payload store and are written by the caller before
// this commit (and compensated on failure).
func (s *Store) PutBookWithFile(ctx context.Context, book *domain.Book, file *domain.BookFile) error {
	if err := s.requireInit(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bookData, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	fileData, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal book file: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(bookPrefix+book.ISBN), bookData); err != nil {
			return err
		}
		return txn.Set([]byte(bookFilePrefix+file.ISBN), fileData)
	})
	if err != nil {
		return classify(err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book stored",
			slog.String("isbn", book.ISBN),
			slog.String("title", book.Title),
			slog.String("file", file.FileName),
		)
	}
	return nil
}

// DeleteBook removes a book's metadata and payload sidecar in one
// transaction. It never touches collections or challenges that reference the
// ISBN; those hold soft references filtered at read time.
// Returns whether a book existed and whether it had a payload sidecar.
func (s *Store) DeleteBook(ctx context.Context, isbn string) (existed, hadFile bool, err error) {
	if err := s.requireInit(); err != nil {
		return false, false, err
	}
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		bookKey := []byte(bookPrefix + isbn)
		if _, err := txn.Get(bookKey); err == nil {
			existed = true
			if err := txn.Delete(bookKey); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		fileKey := []byte(bookFilePrefix + isbn)
		if _, err := txn.Get(fileKey); err == nil {
			hadFile = true
			if err := txn.Delete(fileKey); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return false, false, classify(err)
	}

	if existed && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book deleted",
			slog.String("isbn", isbn),
			slog.Bool("had_file", hadFile),
		)
	}
	return existed, hadFile, nil
}
