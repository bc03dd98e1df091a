package service_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/service"
)

func TestBackupService_ExportGeneratesPath(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	backupDir := t.TempDir()
	backups := service.NewBackupService(e.store, e.payloads, backupDir, "test", nil)

	_, err := e.books.AddBook(ctx, sampleBook("111", "Dune"), nil, "")
	require.NoError(t, err)

	result, err := backups.ExportArchive(ctx, backup.DefaultExportOptions())
	require.NoError(t, err)
	assert.Equal(t, backupDir, filepath.Dir(result.Path))
	assert.True(t, strings.HasSuffix(result.Path, ".inkwell.zip"))
	assert.Equal(t, 1, result.Counts.Books)

	listed, err := backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, result.Path, listed[0].Path)
}

func TestBackupService_ExportThenRestore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	backups := service.NewBackupService(e.store, e.payloads, t.TempDir(), "test", nil)

	_, err := e.books.AddBook(ctx, sampleBook("111", "Dune"), strings.NewReader("payload"), "dune.epub")
	require.NoError(t, err)

	result, err := backups.ExportArchive(ctx, backup.DefaultExportOptions())
	require.NoError(t, err)

	require.NoError(t, e.store.ClearAll(ctx))
	require.NoError(t, e.payloads.Clear())

	imported, err := backups.ImportArchiveFile(ctx, result.Path, backup.ImportOptions{Selection: backup.SelectAll()})
	require.NoError(t, err)
	assert.Equal(t, 1, imported.Imported["books"])
	assert.Equal(t, 1, imported.Files)

	book, err := e.books.GetBook(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	data, _, err := e.books.ReadBookFile(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestBackupService_ValidateAndPrune(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	backupDir := t.TempDir()
	backups := service.NewBackupService(e.store, e.payloads, backupDir, "test", nil)

	// Timestamped names collide within a second, so name each export
	var last string
	for _, name := range []string{"backup-a", "backup-b", "backup-c"} {
		opts := backup.DefaultExportOptions()
		opts.OutputPath = filepath.Join(backupDir, name+".inkwell.zip")
		result, err := backups.ExportArchive(ctx, opts)
		require.NoError(t, err)
		last = result.Path
	}

	validation, err := backups.Validate(ctx, last)
	require.NoError(t, err)
	assert.True(t, validation.Valid)

	removed, err := backups.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	listed, err := backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
