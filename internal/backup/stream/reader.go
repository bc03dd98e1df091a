package stream

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"iter"

	"encoding/json/jsontext"
	"encoding/json/v2"
)

// ErrFileNotFound indicates an entry was not found in the archive.
var ErrFileNotFound = errors.New("file not found in archive")

// OpenFile finds and opens an entry from a zip archive.
func OpenFile(zr *zip.Reader, path string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, ErrFileNotFound
}

// Reader streams entities out of a JSON array document.
type Reader[T any] struct {
	rc  io.ReadCloser
	dec *jsontext.Decoder
}

// NewReader creates a streaming reader for type T. The reader owns rc and
// closes it when iteration finishes.
func NewReader[T any](rc io.ReadCloser) *Reader[T] {
	return &Reader[T]{
		rc:  rc,
		dec: jsontext.NewDecoder(rc),
	}
}

// All returns an iterator over every element of the array. A malformed
// document yields a single error and stops; the archive is treated as
// all-or-nothing.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer r.rc.Close()

		var zero T

		tok, err := r.dec.ReadToken()
		if err != nil {
			yield(zero, err)
			return
		}
		if tok.Kind() != '[' {
			yield(zero, fmt.Errorf("expected JSON array, got %v", tok.Kind()))
			return
		}

		for r.dec.PeekKind() != ']' {
			var entity T
			if err := json.UnmarshalDecode(r.dec, &entity); err != nil {
				yield(zero, err)
				return
			}
			if !yield(entity, nil) {
				return
			}
		}

		if _, err := r.dec.ReadToken(); err != nil {
			yield(zero, err)
		}
	}
}

// Collect drains the iterator into a slice, stopping at the first error.
func (r *Reader[T]) Collect() ([]T, error) {
	var out []T
	for entity, err := range r.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
