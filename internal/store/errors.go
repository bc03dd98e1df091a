package store

import (
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

// classify maps low-level Badger errors into the domain error taxonomy at the
// storage boundary, so callers never see engine-specific errors.
func classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified (or deliberately constructed) domain errors pass through.
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return apperrors.ErrNotFound.WithCause(err)
	case errors.Is(err, badger.ErrTxnTooBig):
		return apperrors.ErrStorageFull.WithCause(err)
	case errors.Is(err, badger.ErrConflict):
		// Optimistic transaction conflict; surfaced for the caller to retry.
		return apperrors.Internal("transaction conflict").WithCause(err)
	case errors.Is(err, badger.ErrDBClosed):
		return apperrors.NotInitialized("database is closed").WithCause(err)
	case isDiskFull(err):
		return apperrors.ErrStorageFull.WithCause(err)
	default:
		return apperrors.ErrInternal.WithCause(err)
	}
}

// isDiskFull sniffs underlying filesystem exhaustion, which Badger reports as
// wrapped syscall errors with varying text across platforms.
func isDiskFull(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") || strings.Contains(msg, "disk quota")
}
