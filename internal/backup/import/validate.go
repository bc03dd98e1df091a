package backupimport

import (
	"archive/zip"
	"bytes"
	"context"

	"github.com/inkwellapp/inkwell/internal/backup"
)

// Validate checks an archive without writing anything: manifest present and
// versioned, every entity document parseable, every payload entry intact.
func (i *Importer) Validate(ctx context.Context, archive []byte) (*backup.ValidationResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return &backup.ValidationResult{Errors: []string{err.Error()}}, nil
	}
	return i.validate(ctx, zr), nil
}

// ValidateFile checks an archive on disk.
func (i *Importer) ValidateFile(ctx context.Context, archivePath string) (*backup.ValidationResult, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return &backup.ValidationResult{Errors: []string{err.Error()}}, nil
	}
	defer zr.Close()
	return i.validate(ctx, &zr.Reader), nil
}

func (i *Importer) validate(ctx context.Context, zr *zip.Reader) *backup.ValidationResult {
	result := &backup.ValidationResult{}

	c, err := i.decode(ctx, zr, backup.SelectAll())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		// Manifest may still be readable even when a document is not
		if m, mErr := ReadManifest(zr); mErr == nil {
			result.Manifest = m
		}
		return result
	}

	result.Valid = true
	result.Manifest = c.manifest
	return result
}
