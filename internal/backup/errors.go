// Package backup provides archive export and import for the Inkwell library.
package backup

import apperrors "github.com/inkwellapp/inkwell/internal/errors"

var (
	// ErrInvalidManifest indicates metadata.json is missing or malformed.
	ErrInvalidManifest = apperrors.ArchiveFormat("invalid or missing manifest")

	// ErrVersionMismatch indicates the archive format version is not supported.
	ErrVersionMismatch = apperrors.ArchiveFormat("archive version not supported")

	// ErrCorruptedArchive indicates the archive failed integrity checks.
	ErrCorruptedArchive = apperrors.ArchiveFormat("archive integrity check failed")

	// ErrBackupNotFound indicates the requested backup file does not exist.
	ErrBackupNotFound = apperrors.NotFound("backup not found")
)
