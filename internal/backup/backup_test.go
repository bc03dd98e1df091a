package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/backup"
)

func writeBackupFile(t *testing.T, dir, id string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, id+".inkwell.zip")
	require.NoError(t, os.WriteFile(path, []byte("zip bytes"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestService_NewArchivePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := backup.NewService(dir, nil)

	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	path, err := svc.NewArchivePath(now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup-2026-03-14-150926.inkwell.zip"), path)

	// The directory was created on demand
	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestService_List_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	svc := backup.NewService(dir, nil)
	ctx := context.Background()

	now := time.Now()
	writeBackupFile(t, dir, "backup-old", now.Add(-2*time.Hour))
	writeBackupFile(t, dir, "backup-new", now)
	writeBackupFile(t, dir, "backup-mid", now.Add(-time.Hour))

	// Files without the archive suffix are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	backups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, "backup-new", backups[0].ID)
	assert.Equal(t, "backup-mid", backups[1].ID)
	assert.Equal(t, "backup-old", backups[2].ID)
}

func TestService_List_MissingDir(t *testing.T) {
	svc := backup.NewService(filepath.Join(t.TempDir(), "never-created"), nil)

	backups, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestService_GetAndDelete(t *testing.T) {
	dir := t.TempDir()
	svc := backup.NewService(dir, nil)
	ctx := context.Background()

	writeBackupFile(t, dir, "backup-x", time.Now())

	info, err := svc.Get(ctx, "backup-x")
	require.NoError(t, err)
	assert.Equal(t, "backup-x", info.ID)
	assert.Equal(t, int64(len("zip bytes")), info.Size)

	require.NoError(t, svc.Delete(ctx, "backup-x"))

	_, err = svc.Get(ctx, "backup-x")
	require.ErrorIs(t, err, backup.ErrBackupNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "backup-x"), backup.ErrBackupNotFound)
}

func TestService_Prune(t *testing.T) {
	dir := t.TempDir()
	svc := backup.NewService(dir, nil)
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"backup-a", "backup-b", "backup-c", "backup-d"} {
		writeBackupFile(t, dir, id, now.Add(-time.Duration(i)*time.Hour))
	}

	removed, err := svc.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	backups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "backup-a", backups[0].ID)
	assert.Equal(t, "backup-b", backups[1].ID)

	// Already at the limit; nothing more to remove
	removed, err = svc.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSelection_Any(t *testing.T) {
	assert.False(t, backup.Selection{}.Any())
	assert.True(t, backup.Selection{Progress: true}.Any())
	assert.True(t, backup.SelectAll().Any())
}
