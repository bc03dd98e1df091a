// Package backupimport restores library data from backup archives.
//
// Import runs in two phases. The decode phase reads and validates the whole
// archive (manifest, every selected entity document, payload integrity)
// without touching the store; any corruption aborts here. The apply phase
// then writes the decoded records, so a malformed archive can never leave a
// partial import behind.
package backupimport

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"encoding/json/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/backup/stream"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Importer restores from backup archives.
type Importer struct {
	store    *store.Store
	payloads *payload.Store
	logger   *slog.Logger
}

// New creates an Importer.
func New(s *store.Store, p *payload.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: s, payloads: p, logger: logger}
}

// contents is the fully decoded archive, held in memory between phases.
// Binary payloads stay in the zip and are streamed during apply.
type contents struct {
	manifest    *backup.Manifest
	books       []*domain.Book
	collections []*domain.Collection
	highlights  []*domain.Highlight
	progress    []*domain.ReadingProgress
	challenges  []*domain.Challenge
	settings    domain.Settings

	// files maps ISBN to its payload entry inside book_files/
	files map[string]*zip.File
}

// Import restores from archive bytes.
func (i *Importer) Import(ctx context.Context, archive []byte, opts backup.ImportOptions) (*backup.ImportResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, backup.ErrCorruptedArchive.WithCause(err)
	}
	return i.importArchive(ctx, zr, opts)
}

// ImportFile restores from an archive on disk.
func (i *Importer) ImportFile(ctx context.Context, archivePath string, opts backup.ImportOptions) (*backup.ImportResult, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, backup.ErrCorruptedArchive.WithCause(err)
	}
	defer zr.Close()
	return i.importArchive(ctx, &zr.Reader, opts)
}

func (i *Importer) importArchive(ctx context.Context, zr *zip.Reader, opts backup.ImportOptions) (*backup.ImportResult, error) {
	start := time.Now()

	c, err := i.decode(ctx, zr, opts.Selection)
	if err != nil {
		return nil, err
	}

	result := &backup.ImportResult{
		Imported: make(map[string]int),
	}

	if opts.DryRun {
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := i.apply(ctx, c, opts.Selection, result); err != nil {
		return nil, err
	}

	for _, n := range result.Imported {
		result.ImportedCount += n
	}
	result.Duration = time.Since(start)

	i.logger.Info("archive imported",
		"imported", result.ImportedCount,
		"files", result.Files,
		"duration", result.Duration,
	)
	return result, nil
}

// decode reads the manifest and every selected entity document, and checks
// payload integrity. Nothing is written to the store.
func (i *Importer) decode(ctx context.Context, zr *zip.Reader, sel backup.Selection) (*contents, error) {
	manifest, err := ReadManifest(zr)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(manifest.FormatVersion); err != nil {
		return nil, err
	}

	c := &contents{manifest: manifest, files: make(map[string]*zip.File)}

	if sel.Books && manifest.Included.Books {
		if c.books, err = decodeDoc[domain.Book](zr, backup.BooksPath); err != nil {
			return nil, err
		}
	}
	if sel.Collections && manifest.Included.Collections {
		if c.collections, err = decodeDoc[domain.Collection](zr, backup.CollectionsPath); err != nil {
			return nil, err
		}
	}
	if sel.Highlights && manifest.Included.Highlights {
		if c.highlights, err = decodeDoc[domain.Highlight](zr, backup.HighlightsPath); err != nil {
			return nil, err
		}
	}
	if sel.Progress && manifest.Included.Progress {
		if c.progress, err = decodeDoc[domain.ReadingProgress](zr, backup.ProgressPath); err != nil {
			return nil, err
		}
	}
	if sel.Challenges && manifest.Included.Challenges {
		if c.challenges, err = decodeDoc[domain.Challenge](zr, backup.ChallengesPath); err != nil {
			return nil, err
		}
	}
	if sel.Settings && manifest.Included.Settings {
		if c.settings, err = decodeSettings(zr); err != nil {
			return nil, err
		}
	}

	if sel.Books && manifest.IncludesFiles {
		if err := i.indexFiles(ctx, zr, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// indexFiles maps book_files/ entries by ISBN and verifies each entry's
// checksum by reading it through. Payloads are re-read during apply; the
// double read trades time for the no-partial-import guarantee.
func (i *Importer) indexFiles(ctx context.Context, zr *zip.Reader, c *contents) error {
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, backup.FilesDir+"/") || f.FileInfo().IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := path.Base(f.Name)
		isbn := strings.TrimSuffix(name, path.Ext(name))
		if isbn == "" {
			return backup.ErrCorruptedArchive.WithCause(fmt.Errorf("unnamed payload entry %q", f.Name))
		}

		rc, err := f.Open()
		if err != nil {
			return backup.ErrCorruptedArchive.WithCause(err)
		}
		if _, err := io.Copy(io.Discard, rc); err != nil {
			rc.Close()
			return backup.ErrCorruptedArchive.WithCause(fmt.Errorf("payload %s: %w", isbn, err))
		}
		rc.Close()

		c.files[isbn] = f
	}
	return nil
}

// ReadManifest extracts and parses metadata.json.
func ReadManifest(zr *zip.Reader) (*backup.Manifest, error) {
	rc, err := stream.OpenFile(zr, backup.ManifestPath)
	if err != nil {
		return nil, backup.ErrInvalidManifest
	}
	defer rc.Close()

	var manifest backup.Manifest
	if err := json.UnmarshalRead(rc, &manifest); err != nil {
		return nil, backup.ErrInvalidManifest.WithCause(err)
	}
	return &manifest, nil
}

func checkVersion(version string) error {
	// Exact match only for now; migration logic comes with the first
	// format bump.
	if version != backup.FormatVersion {
		return backup.ErrVersionMismatch.WithCause(
			fmt.Errorf("got %s, want %s", version, backup.FormatVersion))
	}
	return nil
}

// decodeDoc fully parses one entity document. A missing document is treated
// as empty; a malformed one fails the import.
func decodeDoc[T any](zr *zip.Reader, docPath string) ([]*T, error) {
	rc, err := stream.OpenFile(zr, docPath)
	if err != nil {
		return nil, nil
	}

	entities, err := stream.NewReader[*T](rc).Collect()
	if err != nil {
		return nil, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("%s: %w", docPath, err))
	}
	return entities, nil
}

func decodeSettings(zr *zip.Reader) (domain.Settings, error) {
	rc, err := stream.OpenFile(zr, backup.SettingsPath)
	if err != nil {
		return nil, nil
	}
	defer rc.Close()

	var settings domain.Settings
	if err := json.UnmarshalRead(rc, &settings); err != nil {
		return nil, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("%s: %w", backup.SettingsPath, err))
	}
	return settings, nil
}
