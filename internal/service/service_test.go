package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/service"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// env wires the stores and services every test needs against temp dirs.
type env struct {
	store    *store.Store
	payloads *payload.Store

	books       *service.BookService
	collections *service.CollectionService
	challenges  *service.ChallengeService
	highlights  *service.HighlightService
	progress    *service.ProgressService
	profile     *service.ProfileService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Init(context.Background()))

	p, err := payload.NewStore(t.TempDir())
	require.NoError(t, err)

	v := validation.New()
	h := service.NewHydrator(s)

	return &env{
		store:       s,
		payloads:    p,
		books:       service.NewBookService(s, p, nil, v, nil),
		collections: service.NewCollectionService(s, h, v, nil),
		challenges:  service.NewChallengeService(s, h, v, nil),
		highlights:  service.NewHighlightService(s, v, nil),
		progress:    service.NewProgressService(s, nil),
		profile:     service.NewProfileService(s, v, nil),
	}
}

func sampleBook(isbn, title string) domain.Book {
	return domain.Book{
		ISBN:   isbn,
		Title:  title,
		Author: "Test Author",
		Genre:  "Fiction",
	}
}
