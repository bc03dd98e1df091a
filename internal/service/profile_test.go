package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

func TestProfileService_SetUser_GeneratesID(t *testing.T) {
	e := newEnv(t)

	user, err := e.profile.SetUser(context.Background(), domain.User{Name: "Ada"})
	require.NoError(t, err)
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "generated id %q", user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestProfileService_SetUser_ReplaceSemantics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.profile.SetUser(ctx, domain.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = e.profile.SetUser(ctx, domain.User{Name: "Grace"})
	require.NoError(t, err)

	got, err := e.profile.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)
	assert.Empty(t, got.Email)
}

func TestProfileService_SetUser_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.profile.SetUser(ctx, domain.User{})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.profile.SetUser(ctx, domain.User{Name: "Ada", Email: "not-an-email"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProfileService_GetUser_NoneYet(t *testing.T) {
	e := newEnv(t)

	_, err := e.profile.GetUser(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProfileService_Settings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	settings, err := e.profile.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, settings)

	merged, err := e.profile.UpdateSettings(ctx, domain.Settings{"theme": "dark", "font_size": 14})
	require.NoError(t, err)
	assert.Equal(t, "dark", merged["theme"])

	// Patch wins per key, untouched keys survive
	merged, err = e.profile.UpdateSettings(ctx, domain.Settings{"theme": "light"})
	require.NoError(t, err)
	assert.Equal(t, "light", merged["theme"])
	assert.NotNil(t, merged["font_size"])
}
