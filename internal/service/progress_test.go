package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

func TestProgressService_Upsert(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p, err := e.progress.UpdateReadingProgress(ctx, "111", 25, "epubcfi(/6/4!/4/2)", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 25.0, p.CurrentPercentage)
	assert.False(t, p.UpdatedAt.IsZero())

	p, err = e.progress.UpdateReadingProgress(ctx, "111", 50, "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.CurrentPercentage)

	got, err := e.progress.GetReadingProgress(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.CurrentPercentage)

	// One record per ISBN
	all, err := e.progress.GetAllProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProgressService_LastWriteWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	now := time.Now()
	_, err := e.progress.UpdateReadingProgress(ctx, "111", 80, "", now)
	require.NoError(t, err)

	// A write stamped earlier than the stored record is dropped
	p, err := e.progress.UpdateReadingProgress(ctx, "111", 30, "", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.CurrentPercentage)

	p, err = e.progress.UpdateReadingProgress(ctx, "111", 90, "", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 90.0, p.CurrentPercentage)
}

func TestProgressService_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.progress.UpdateReadingProgress(ctx, "", 10, "", time.Time{})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.progress.UpdateReadingProgress(ctx, "111", -1, "", time.Time{})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.progress.UpdateReadingProgress(ctx, "111", 100.5, "", time.Time{})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProgressService_NeverOpened(t *testing.T) {
	e := newEnv(t)

	_, err := e.progress.GetReadingProgress(context.Background(), "111")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProgressService_UnknownISBNAccepted(t *testing.T) {
	e := newEnv(t)

	// Progress references are soft; no book record is required
	p, err := e.progress.UpdateReadingProgress(context.Background(), "no-such-book", 10, "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.CurrentPercentage)
}
