// Package stream reads and writes entity documents inside zip archives.
// Each document is a single JSON array streamed element by element, so a
// large table never has to be held in memory as one encoded blob.
package stream

import (
	"archive/zip"

	"encoding/json/jsontext"
	"encoding/json/v2"
)

// Writer streams entities into a JSON array at a path within the zip.
type Writer struct {
	enc   *jsontext.Encoder
	count int
}

// NewWriter creates the zip entry and opens the array.
func NewWriter(zw *zip.Writer, path string) (*Writer, error) {
	w, err := zw.Create(path)
	if err != nil {
		return nil, err
	}

	enc := jsontext.NewEncoder(w)
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return nil, err
	}

	return &Writer{enc: enc}, nil
}

// Write appends a single entity to the array.
func (w *Writer) Write(entity any) error {
	if err := json.MarshalEncode(w.enc, entity); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns entities written so far.
func (w *Writer) Count() int {
	return w.count
}

// Close terminates the array. The zip entry itself is finalized by the
// enclosing zip.Writer when the next entry is created or the zip is closed.
func (w *Writer) Close() error {
	return w.enc.WriteToken(jsontext.EndArray)
}
