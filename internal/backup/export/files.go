package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/payload"
)

// exportFiles streams every stored book payload into book_files/. Payloads
// are copied one at a time straight from disk into the zip entry, so archive
// size is bounded only by disk, not memory.
func (e *Exporter) exportFiles(ctx context.Context, zw *zip.Writer) (int, error) {
	count := 0

	for file, err := range e.store.BookFiles.All(ctx) {
		if err != nil {
			return count, err
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}

		ext := payload.Ext(file.FileName)
		rc, err := e.payloads.Open(file.ISBN, ext)
		if err != nil {
			// A sidecar without its payload is a store inconsistency;
			// skip it rather than failing the whole backup.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return count, fmt.Errorf("open payload %s: %w", file.ISBN, err)
		}

		w, err := zw.Create(backup.FilesDir + "/" + file.ISBN + ext)
		if err != nil {
			rc.Close()
			return count, err
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return count, fmt.Errorf("copy payload %s: %w", file.ISBN, err)
		}
		rc.Close()
		count++
	}

	return count, nil
}
