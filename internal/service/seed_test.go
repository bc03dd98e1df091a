package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/service"
)

func TestSeeder_PopulatesEmptyLibrary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seeder := service.NewSeeder(e.store, e.books, e.collections, e.highlights, nil)

	seeded, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	books, err := e.books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)

	collections, err := e.collections.GetCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "Getting Started", collections[0].Name)
	assert.Len(t, collections[0].Books, 3)

	highlights, err := e.highlights.GetHighlights(ctx)
	require.NoError(t, err)
	assert.Len(t, highlights, 1)
}

func TestSeeder_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seeder := service.NewSeeder(e.store, e.books, e.collections, e.highlights, nil)

	seeded, err := seeder.Seed(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	books, err := e.books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestSeeder_SkipsNonEmptyLibrary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.books.AddBook(ctx, sampleBook("111", "Already Here"), nil, "")
	require.NoError(t, err)

	seeder := service.NewSeeder(e.store, e.books, e.collections, e.highlights, nil)
	seeded, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	books, err := e.books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}
