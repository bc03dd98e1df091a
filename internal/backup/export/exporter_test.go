package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"encoding/json/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/backup/export"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/store"
)

func setupExporter(t *testing.T) (*export.Exporter, *store.Store, *payload.Store) {
	t.Helper()

	s, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Init(context.Background()))

	p, err := payload.NewStore(t.TempDir())
	require.NoError(t, err)

	return export.New(s, p, "1.2.3"), s, p
}

func archiveEntries(t *testing.T, path string) map[string]*zip.File {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { zr.Close() })

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	return entries
}

func readEntry(t *testing.T, entries map[string]*zip.File, name string) []byte {
	t.Helper()
	f, ok := entries[name]
	require.True(t, ok, "archive entry %s missing", name)
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestExport_EmptyLibraryStillWritesDocuments(t *testing.T) {
	exporter, _, _ := setupExporter(t)

	opts := backup.DefaultExportOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), "empty.zip")

	result, err := exporter.Export(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, result.Counts.Books)

	entries := archiveEntries(t, opts.OutputPath)
	for _, name := range []string{
		backup.BooksPath,
		backup.CollectionsPath,
		backup.HighlightsPath,
		backup.ProgressPath,
		backup.ChallengesPath,
		backup.SettingsPath,
		backup.ManifestPath,
	} {
		assert.Contains(t, entries, name)
	}

	assert.JSONEq(t, "[]", string(readEntry(t, entries, backup.BooksPath)))
	assert.JSONEq(t, "{}", string(readEntry(t, entries, backup.SettingsPath)))
}

func TestExport_ManifestCarriesCountsAndVersion(t *testing.T) {
	exporter, s, _ := setupExporter(t)
	ctx := context.Background()

	book := &domain.Book{ISBN: "111", Title: "Dune"}
	book.InitTimestamps()
	require.NoError(t, s.Books.Put(ctx, book.ISBN, book))
	require.NoError(t, s.Progress.Put(ctx, "111", &domain.ReadingProgress{ISBN: "111", CurrentPercentage: 10, UpdatedAt: time.Now()}))

	opts := backup.DefaultExportOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), "lib.zip")

	result, err := exporter.Export(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts.Books)
	assert.Equal(t, 1, result.Counts.Progress)

	entries := archiveEntries(t, opts.OutputPath)
	var manifest backup.Manifest
	require.NoError(t, json.Unmarshal(readEntry(t, entries, backup.ManifestPath), &manifest))
	assert.Equal(t, backup.FormatVersion, manifest.FormatVersion)
	assert.Equal(t, "1.2.3", manifest.InkwellVersion)
	assert.Equal(t, 1, manifest.Counts.Books)
	assert.True(t, manifest.Included.Books)
	assert.False(t, manifest.CreatedAt.IsZero())
}

func TestExport_SelectionMask(t *testing.T) {
	exporter, s, _ := setupExporter(t)
	ctx := context.Background()

	book := &domain.Book{ISBN: "111", Title: "Dune"}
	book.InitTimestamps()
	require.NoError(t, s.Books.Put(ctx, book.ISBN, book))

	opts := backup.ExportOptions{
		Selection:  backup.Selection{Books: true},
		OutputPath: filepath.Join(t.TempDir(), "books-only.zip"),
	}
	_, err := exporter.Export(ctx, opts)
	require.NoError(t, err)

	entries := archiveEntries(t, opts.OutputPath)
	assert.Contains(t, entries, backup.BooksPath)
	assert.NotContains(t, entries, backup.CollectionsPath)
	assert.NotContains(t, entries, backup.SettingsPath)
}

func TestExport_IncludesPayloads(t *testing.T) {
	exporter, s, p := setupExporter(t)
	ctx := context.Background()

	data := []byte("payload bytes")
	_, err := p.Save("111", ".epub", bytes.NewReader(data))
	require.NoError(t, err)
	book := &domain.Book{ISBN: "111", Title: "Dune"}
	book.InitTimestamps()
	require.NoError(t, s.PutBookWithFile(ctx, book, &domain.BookFile{
		ISBN: "111", FileName: "111.epub", MimeType: domain.DefaultEpubMimeType, Size: int64(len(data)),
	}))

	opts := backup.DefaultExportOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), "with-files.zip")

	result, err := exporter.Export(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts.Files)

	entries := archiveEntries(t, opts.OutputPath)
	assert.Equal(t, data, readEntry(t, entries, backup.FilesDir+"/111.epub"))
}

func TestExport_NoFilesWhenExcluded(t *testing.T) {
	exporter, s, p := setupExporter(t)
	ctx := context.Background()

	_, err := p.Save("111", ".epub", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	book := &domain.Book{ISBN: "111", Title: "Dune"}
	book.InitTimestamps()
	require.NoError(t, s.PutBookWithFile(ctx, book, &domain.BookFile{ISBN: "111", FileName: "111.epub", Size: 1}))

	opts := backup.DefaultExportOptions()
	opts.IncludeFiles = false
	opts.OutputPath = filepath.Join(t.TempDir(), "no-files.zip")

	result, err := exporter.Export(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, result.Counts.Files)

	entries := archiveEntries(t, opts.OutputPath)
	assert.NotContains(t, entries, backup.FilesDir+"/111.epub")
}

func TestExport_ChecksumMatchesFile(t *testing.T) {
	exporter, s, _ := setupExporter(t)
	ctx := context.Background()

	book := &domain.Book{ISBN: "111", Title: "Dune"}
	book.InitTimestamps()
	require.NoError(t, s.Books.Put(ctx, book.ISBN, book))

	opts := backup.DefaultExportOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), "sum.zip")

	result, err := exporter.Export(ctx, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.Checksum)
	assert.Equal(t, int64(len(data)), result.Size)
}

func TestExport_NoTempFileLeftBehind(t *testing.T) {
	exporter, _, _ := setupExporter(t)

	dir := t.TempDir()
	opts := backup.DefaultExportOptions()
	opts.OutputPath = filepath.Join(dir, "clean.zip")

	_, err := exporter.Export(context.Background(), opts)
	require.NoError(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "clean.zip", files[0].Name())
}
