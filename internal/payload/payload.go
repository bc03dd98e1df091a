// Package payload stores raw book file bytes on the filesystem, keyed by ISBN.
//
// Payloads are immutable once written: a new payload for the same ISBN
// replaces the old file wholesale. Reads and writes stream through io
// interfaces so multi-megabyte EPUBs never have to sit in memory whole.
package payload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

// DefaultExt is assumed when a payload's original extension is unknown.
const DefaultExt = ".epub"

// Store manages payload filesystem operations.
// Thread-safe for concurrent operations.
type Store struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStore creates a payload store rooted at basePath/books.
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "books")
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create books directory: %w", err)
	}

	return &Store{basePath: storagePath}, nil
}

// Ext normalizes a file name's extension for payload naming.
func Ext(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return DefaultExt
	}
	return ext
}

// Path returns the on-disk location for an ISBN's payload.
func (s *Store) Path(isbn, ext string) string {
	return filepath.Join(s.basePath, isbn+ext)
}

// Save streams payload bytes to disk for an ISBN. The data is written to a
// temp file and renamed into place so a failed write never leaves a partial
// payload behind. Returns the number of bytes written.
func (s *Store) Save(isbn, ext string, r io.Reader) (int64, error) {
	if isbn == "" {
		return 0, apperrors.Validation("payload isbn cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dest := s.Path(isbn, ext)
	tmp, err := os.CreateTemp(s.basePath, "payload-*.tmp")
	if err != nil {
		return 0, classifyFS(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op after successful rename

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, classifyFS(err)
	}
	if err := tmp.Close(); err != nil {
		return 0, classifyFS(err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, classifyFS(err)
	}
	return n, nil
}

// Open returns a streaming reader over an ISBN's payload.
// Returns a NOT_FOUND error if no payload exists.
func (s *Store) Open(isbn, ext string) (io.ReadCloser, error) {
	if isbn == "" {
		return nil, apperrors.Validation("payload isbn cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.Path(isbn, ext))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundf("no payload for %s", isbn)
		}
		return nil, classifyFS(err)
	}
	return f, nil
}

// Read loads an ISBN's payload fully into memory. Prefer Open for large
// payloads; this exists for callers that genuinely need the bytes.
func (s *Store) Read(isbn, ext string) ([]byte, error) {
	rc, err := s.Open(isbn, ext)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Exists checks if a payload exists for an ISBN.
func (s *Store) Exists(isbn, ext string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(isbn, ext))
	return err == nil
}

// Delete removes an ISBN's payload. Deleting an absent payload is not an error.
func (s *Store) Delete(isbn, ext string) error {
	if isbn == "" {
		return apperrors.Validation("payload isbn cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(isbn, ext)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return classifyFS(err)
	}
	return nil
}

// Clear removes every stored payload. Used by the clear-all-data operation.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return classifyFS(err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err != nil {
			return classifyFS(err)
		}
	}
	return nil
}

// classifyFS maps filesystem errors into the domain taxonomy.
func classifyFS(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no space left") || strings.Contains(msg, "disk quota") {
		return apperrors.ErrStorageFull.WithCause(err)
	}
	return apperrors.ErrInternal.WithCause(err)
}
