package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// archiveSuffix is appended to every backup file name.
const archiveSuffix = ".inkwell.zip"

// Service manages the backup directory: naming, listing, and deletion of
// archive files. Archive content itself is produced and consumed by the
// export and import packages.
type Service struct {
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup Service rooted at backupDir.
func NewService(backupDir string, logger *slog.Logger) *Service {
	return &Service{backupDir: backupDir, logger: logger}
}

// Dir returns the backup directory, creating it if needed.
func (s *Service) Dir() (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	return s.backupDir, nil
}

// NewArchivePath returns a timestamped path for a fresh backup.
func (s *Service) NewArchivePath(now time.Time) (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	timestamp := now.Format("2006-01-02-150405")
	return filepath.Join(dir, fmt.Sprintf("backup-%s%s", timestamp, archiveSuffix)), nil
}

// List returns all backups in the directory, newest first.
func (s *Service) List(ctx context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			ID:        strings.TrimSuffix(entry.Name(), archiveSuffix),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns a backup by ID.
func (s *Service) Get(ctx context.Context, id string) (*BackupInfo, error) {
	path := s.Path(id)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}

	return &BackupInfo{
		ID:        id,
		Path:      path,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Delete removes a backup file.
func (s *Service) Delete(ctx context.Context, id string) error {
	path := s.Path(id)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return err
	}
	return os.Remove(path)
}

// Prune deletes all but the newest keep backups. Returns the number removed.
func (s *Service) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	backups, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	removed := 0
	for _, b := range backups[keep:] {
		if err := os.Remove(b.Path); err != nil {
			return removed, fmt.Errorf("prune %s: %w", b.ID, err)
		}
		removed++
	}

	if s.logger != nil && removed > 0 {
		s.logger.Info("pruned old backups", "removed", removed, "kept", keep)
	}
	return removed, nil
}

// Path returns the file path for a backup ID.
func (s *Service) Path(id string) string {
	return filepath.Join(s.backupDir, id+archiveSuffix)
}
