package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/search"
)

func setupIndex(t *testing.T) *search.Index {
	t.Helper()
	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexBooks(t *testing.T, idx *search.Index, books ...*domain.Book) {
	t.Helper()
	for _, b := range books {
		require.NoError(t, idx.IndexBook(context.Background(), b))
	}
}

func TestIndex_SearchByTitle(t *testing.T) {
	idx := setupIndex(t)
	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "The Dispossessed", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
		&domain.Book{ISBN: "2", Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "Fantasy"},
	)

	res, err := idx.Search(context.Background(), search.Params{Query: "dispossessed", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "1", res.Hits[0].ISBN)
	assert.Equal(t, "The Dispossessed", res.Hits[0].Title)
}

func TestIndex_SearchByAuthor(t *testing.T) {
	idx := setupIndex(t)
	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Neuromancer", Author: "William Gibson", Genre: "Science Fiction"},
		&domain.Book{ISBN: "2", Title: "Emma", Author: "Jane Austen", Genre: "Classic"},
	)

	res, err := idx.Search(context.Background(), search.Params{Query: "gibson", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "1", res.Hits[0].ISBN)
}

func TestIndex_SearchFuzzy(t *testing.T) {
	idx := setupIndex(t)
	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Neuromancer", Author: "William Gibson"},
	)

	// One edit away still matches
	res, err := idx.Search(context.Background(), search.Params{Query: "neuromancr", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Total)
}

func TestIndex_GenreFilter(t *testing.T) {
	idx := setupIndex(t)
	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		&domain.Book{ISBN: "2", Title: "Dune Messiah", Author: "Frank Herbert", Genre: "Science Fiction"},
		&domain.Book{ISBN: "3", Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
	)

	res, err := idx.Search(context.Background(), search.Params{Genre: "Fantasy", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "3", res.Hits[0].ISBN)

	res, err = idx.Search(context.Background(), search.Params{Query: "dune", Genre: "Science Fiction", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Total)
}

func TestIndex_EmptyQueryMatchesAll(t *testing.T) {
	idx := setupIndex(t)
	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert"},
		&domain.Book{ISBN: "2", Title: "Emma", Author: "Jane Austen"},
	)

	res, err := idx.Search(context.Background(), search.Params{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Total)
}

func TestIndex_IndexBook_Updates(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	book := &domain.Book{ISBN: "1", Title: "Draft Title", Author: "Someone"}
	require.NoError(t, idx.IndexBook(ctx, book))

	book.Title = "Final Title"
	require.NoError(t, idx.IndexBook(ctx, book))

	res, err := idx.Search(ctx, search.Params{Query: "draft"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	res, err = idx.Search(ctx, search.Params{Query: "final"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Total)
}

func TestIndex_DeleteBook(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	indexBooks(t, idx, &domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, idx.DeleteBook(ctx, "1"))

	res, err := idx.Search(ctx, search.Params{Query: "dune"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestIndex_Rebuild_DropsStaleDocuments(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert"},
		&domain.Book{ISBN: "2", Title: "Emma", Author: "Jane Austen"},
	)

	require.NoError(t, idx.Rebuild(ctx, []*domain.Book{
		{ISBN: "3", Title: "The Hobbit", Author: "J.R.R. Tolkien"},
	}))

	res, err := idx.Search(ctx, search.Params{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "3", res.Hits[0].ISBN)
}

func TestIndex_Rebuild_Empty(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	indexBooks(t, idx, &domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, idx.Rebuild(ctx, nil))

	res, err := idx.Search(ctx, search.Params{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestIndex_Pagination(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	indexBooks(t, idx,
		&domain.Book{ISBN: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		&domain.Book{ISBN: "2", Title: "Dune Messiah", Author: "Frank Herbert", Genre: "Science Fiction"},
		&domain.Book{ISBN: "3", Title: "Children of Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
	)

	res, err := idx.Search(ctx, search.Params{Query: "dune", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
	assert.Len(t, res.Hits, 2)

	res, err = idx.Search(ctx, search.Params{Query: "dune", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
}
