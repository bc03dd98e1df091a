package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

func TestBookService_AddBook_MetadataOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	added, err := e.books.AddBook(ctx, sampleBook("9780441478125", "The Left Hand of Darkness"), nil, "")
	require.NoError(t, err)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := e.books.GetBook(ctx, "9780441478125")
	require.NoError(t, err)
	assert.Equal(t, "The Left Hand of Darkness", got.Title)

	// No payload was stored
	_, _, err = e.books.GetBookFile(ctx, "9780441478125")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookService_AddBook_GeneratesISBN(t *testing.T) {
	e := newEnv(t)

	book := sampleBook("", "Untitled Manuscript")
	added, err := e.books.AddBook(context.Background(), book, nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, added.ISBN)
	assert.True(t, strings.HasPrefix(added.ISBN, "bk-"), "generated id %q", added.ISBN)
}

func TestBookService_AddBook_MissingTitle(t *testing.T) {
	e := newEnv(t)

	_, err := e.books.AddBook(context.Background(), domain.Book{ISBN: "111"}, nil, "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBookService_AddBook_WithFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	data := []byte("payload bytes")
	_, err := e.books.AddBook(ctx, sampleBook("111", "Dune"), bytes.NewReader(data), "dune.epub")
	require.NoError(t, err)

	got, meta, err := e.books.ReadBookFile(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "dune.epub", meta.FileName)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, domain.DefaultEpubMimeType, meta.MimeType)
}

func TestBookService_AddBookFromEpub_SniffsMetadata(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	data := epubFixture(t, "Neuromancer", "William Gibson", "9780441569595")

	added, err := e.books.AddBookFromEpub(ctx, domain.Book{}, data, "neuromancer.epub")
	require.NoError(t, err)
	assert.Equal(t, "Neuromancer", added.Title)
	assert.Equal(t, "William Gibson", added.Author)
	assert.Equal(t, "9780441569595", added.ISBN)

	// The payload is the EPUB itself
	got, _, err := e.books.ReadBookFile(ctx, "9780441569595")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBookService_AddBookFromEpub_HintWins(t *testing.T) {
	e := newEnv(t)

	data := epubFixture(t, "Neuromancer", "William Gibson", "9780441569595")
	hint := domain.Book{Title: "My Copy of Neuromancer", Genre: "Cyberpunk"}

	added, err := e.books.AddBookFromEpub(context.Background(), hint, data, "neuromancer.epub")
	require.NoError(t, err)
	assert.Equal(t, "My Copy of Neuromancer", added.Title)
	assert.Equal(t, "William Gibson", added.Author)
	assert.Equal(t, "9780441569595", added.ISBN)
	assert.Equal(t, "Cyberpunk", added.Genre)
}

func TestBookService_AddBookFromEpub_Corrupt(t *testing.T) {
	e := newEnv(t)

	_, err := e.books.AddBookFromEpub(context.Background(), domain.Book{}, []byte("not a zip"), "x.epub")
	require.ErrorIs(t, err, apperrors.ErrArchiveFormat)
}

func TestBookService_DeleteBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.books.AddBook(ctx, sampleBook("111", "Dune"), strings.NewReader("bytes"), "dune.epub")
	require.NoError(t, err)

	existed, err := e.books.DeleteBook(ctx, "111")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = e.books.GetBook(ctx, "111")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, e.payloads.Exists("111", ".epub"))

	existed, err = e.books.DeleteBook(ctx, "111")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestBookService_DeleteBook_LeavesProgressAndHighlights(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.books.AddBook(ctx, sampleBook("111", "Dune"), nil, "")
	require.NoError(t, err)
	_, err = e.progress.UpdateReadingProgress(ctx, "111", 40, "", time.Time{})
	require.NoError(t, err)
	_, err = e.highlights.AddHighlight(ctx, domain.Highlight{BookISBN: "111", Text: "fear is the mind-killer"})
	require.NoError(t, err)

	_, err = e.books.DeleteBook(ctx, "111")
	require.NoError(t, err)

	progress, err := e.progress.GetReadingProgress(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, 40.0, progress.CurrentPercentage)

	hls, err := e.highlights.GetHighlightsForBook(ctx, "111")
	require.NoError(t, err)
	assert.Len(t, hls, 1)
}

func TestBookService_GetAllBooks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.books.AddBook(ctx, sampleBook(fmt.Sprintf("isbn-%d", i), fmt.Sprintf("Book %d", i)), nil, "")
		require.NoError(t, err)
	}

	books, err := e.books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

// epubFixture builds a minimal EPUB container with the given metadata.
func epubFixture(t *testing.T, title, author, isbn string) []byte {
	t.Helper()

	opf := fmt.Sprintf(`<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>
    <dc:identifier>urn:isbn:%s</dc:identifier>
    <dc:language>en</dc:language>
  </metadata>
</package>`, title, author, isbn)

	files := map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"OEBPS/content.opf": opf,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
