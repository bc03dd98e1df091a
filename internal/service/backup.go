package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/backup/export"
	backupimport "github.com/inkwellapp/inkwell/internal/backup/import"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/store"
)

// BackupService orchestrates archive export and import over the backup
// directory.
type BackupService struct {
	files    *backup.Service
	exporter *export.Exporter
	importer *backupimport.Importer
	logger   *slog.Logger
}

// NewBackupService creates a BackupService. version is recorded in every
// manifest this instance produces.
func NewBackupService(s *store.Store, p *payload.Store, backupDir, version string, logger *slog.Logger) *BackupService {
	return &BackupService{
		files:    backup.NewService(backupDir, logger),
		exporter: export.New(s, p, version),
		importer: backupimport.New(s, p, logger),
		logger:   logger,
	}
}

// ExportArchive writes a new backup. When opts.OutputPath is empty a
// timestamped file is created in the backup directory.
func (s *BackupService) ExportArchive(ctx context.Context, opts backup.ExportOptions) (*backup.ExportResult, error) {
	if opts.OutputPath == "" {
		path, err := s.files.NewArchivePath(time.Now())
		if err != nil {
			return nil, err
		}
		opts.OutputPath = path
	}

	if s.logger != nil {
		s.logger.Info("creating backup",
			"output", opts.OutputPath,
			"include_files", opts.IncludeFiles,
		)
	}

	result, err := s.exporter.Export(ctx, opts)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("backup complete",
			"path", result.Path,
			"size", result.Size,
			"checksum", result.Checksum,
			"duration", result.Duration,
		)
	}
	return result, nil
}

// ImportArchive merges archive bytes into the live store.
func (s *BackupService) ImportArchive(ctx context.Context, archive []byte, opts backup.ImportOptions) (*backup.ImportResult, error) {
	return s.importer.Import(ctx, archive, opts)
}

// ImportArchiveFile merges an archive on disk into the live store.
func (s *BackupService) ImportArchiveFile(ctx context.Context, path string, opts backup.ImportOptions) (*backup.ImportResult, error) {
	return s.importer.ImportFile(ctx, path, opts)
}

// Validate checks an archive on disk without importing it.
func (s *BackupService) Validate(ctx context.Context, path string) (*backup.ValidationResult, error) {
	return s.importer.ValidateFile(ctx, path)
}

// List returns the backups in the backup directory, newest first.
func (s *BackupService) List(ctx context.Context) ([]backup.BackupInfo, error) {
	return s.files.List(ctx)
}

// Get returns a backup by ID.
func (s *BackupService) Get(ctx context.Context, id string) (*backup.BackupInfo, error) {
	return s.files.Get(ctx, id)
}

// Delete removes a backup file.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	return s.files.Delete(ctx, id)
}

// Prune keeps the newest keep backups and deletes the rest.
func (s *BackupService) Prune(ctx context.Context, keep int) (int, error) {
	return s.files.Prune(ctx, keep)
}
