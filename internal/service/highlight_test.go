package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

func TestHighlightService_Add(t *testing.T) {
	e := newEnv(t)

	h, err := e.highlights.AddHighlight(context.Background(), domain.Highlight{
		BookISBN: "111",
		Text:     "I must not fear.",
		Color:    "yellow",
		Page:     8,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h.ID, "hl-"), "generated id %q", h.ID)
	assert.False(t, h.CreatedAt.IsZero())
}

func TestHighlightService_Add_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.highlights.AddHighlight(ctx, domain.Highlight{Text: "no isbn"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = e.highlights.AddHighlight(ctx, domain.Highlight{BookISBN: "111"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestHighlightService_FilterByBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, h := range []domain.Highlight{
		{BookISBN: "111", Text: "first"},
		{BookISBN: "111", Text: "second"},
		{BookISBN: "222", Text: "other book"},
	} {
		_, err := e.highlights.AddHighlight(ctx, h)
		require.NoError(t, err)
	}

	all, err := e.highlights.GetHighlights(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forBook, err := e.highlights.GetHighlightsForBook(ctx, "111")
	require.NoError(t, err)
	assert.Len(t, forBook, 2)

	none, err := e.highlights.GetHighlightsForBook(ctx, "333")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHighlightService_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	h, err := e.highlights.AddHighlight(ctx, domain.Highlight{BookISBN: "111", Text: "keep?"})
	require.NoError(t, err)

	existed, err := e.highlights.DeleteHighlight(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = e.highlights.DeleteHighlight(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}
