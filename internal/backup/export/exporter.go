// Package export packs the library into a portable zip archive.
package export

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"encoding/json/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Exporter creates backup archives.
type Exporter struct {
	store    *store.Store
	payloads *payload.Store
	version  string
}

// New creates an Exporter. version is the application version recorded in
// the manifest.
func New(s *store.Store, p *payload.Store, version string) *Exporter {
	return &Exporter{store: s, payloads: p, version: version}
}

// Export writes the archive to opts.OutputPath. The file appears atomically:
// content goes to a temp file first and is renamed only after the zip is
// finalized.
func (e *Exporter) Export(ctx context.Context, opts backup.ExportOptions) (*backup.ExportResult, error) {
	start := time.Now()

	tmpPath := opts.OutputPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	defer os.Remove(tmpPath)
	defer f.Close()

	// Tee to SHA-256 so the checksum covers exactly the bytes on disk
	hash := sha256.New()
	mw := io.MultiWriter(f, hash)
	zw := zip.NewWriter(mw)

	manifest := &backup.Manifest{
		FormatVersion:  backup.FormatVersion,
		CreatedAt:      time.Now(),
		InkwellVersion: e.version,
		Included:       opts.Selection,
		IncludesFiles:  opts.IncludeFiles && opts.Selection.Books,
	}
	counts := &manifest.Counts

	exportSteps := []struct {
		name     string
		selected bool
		fn       func(context.Context, *store.Store, *zip.Writer) (int, error)
		dest     *int
	}{
		{"books", opts.Selection.Books, exportBooks, &counts.Books},
		{"collections", opts.Selection.Collections, exportCollections, &counts.Collections},
		{"highlights", opts.Selection.Highlights, exportHighlights, &counts.Highlights},
		{"reading progress", opts.Selection.Progress, exportProgress, &counts.Progress},
		{"challenges", opts.Selection.Challenges, exportChallenges, &counts.Challenges},
		{"settings", opts.Selection.Settings, exportSettings, &counts.Settings},
	}

	for _, step := range exportSteps {
		if !step.selected {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := step.fn(ctx, e.store, zw)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", step.name, err)
		}
		*step.dest = n
	}

	if manifest.IncludesFiles {
		n, err := e.exportFiles(ctx, zw)
		if err != nil {
			return nil, fmt.Errorf("export book files: %w", err)
		}
		counts.Files = n
	}

	// Manifest goes last so it carries final counts
	if err := writeManifest(zw, manifest); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tmpPath, opts.OutputPath); err != nil {
		return nil, fmt.Errorf("rename archive: %w", err)
	}

	info, err := os.Stat(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	return &backup.ExportResult{
		Path:     opts.OutputPath,
		Size:     info.Size(),
		Counts:   *counts,
		Duration: time.Since(start),
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func writeManifest(zw *zip.Writer, m *backup.Manifest) error {
	w, err := zw.Create(backup.ManifestPath)
	if err != nil {
		return err
	}
	return json.MarshalWrite(w, m)
}
