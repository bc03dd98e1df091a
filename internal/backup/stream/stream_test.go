package stream_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/backup/stream"
	"github.com/inkwellapp/inkwell/internal/domain"
)

func zipWith(t *testing.T, write func(zw *zip.Writer)) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write(zw)
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func TestStream_RoundTrip(t *testing.T) {
	books := []*domain.Book{
		{ISBN: "111", Title: "Dune", Author: "Frank Herbert"},
		{ISBN: "222", Title: "Emma", Author: "Jane Austen"},
		{ISBN: "333", Title: "Neuromancer", Author: "William Gibson"},
	}

	zr := zipWith(t, func(zw *zip.Writer) {
		w, err := stream.NewWriter(zw, "books.json")
		require.NoError(t, err)
		for _, b := range books {
			require.NoError(t, w.Write(b))
		}
		assert.Equal(t, 3, w.Count())
		require.NoError(t, w.Close())
	})

	rc, err := stream.OpenFile(zr, "books.json")
	require.NoError(t, err)

	got, err := stream.NewReader[*domain.Book](rc).Collect()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, "333", got[2].ISBN)
}

func TestStream_EmptyArray(t *testing.T) {
	zr := zipWith(t, func(zw *zip.Writer) {
		w, err := stream.NewWriter(zw, "books.json")
		require.NoError(t, err)
		require.NoError(t, w.Close())
	})

	rc, err := stream.OpenFile(zr, "books.json")
	require.NoError(t, err)

	got, err := stream.NewReader[*domain.Book](rc).Collect()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStream_EarlyStop(t *testing.T) {
	zr := zipWith(t, func(zw *zip.Writer) {
		w, err := stream.NewWriter(zw, "books.json")
		require.NoError(t, err)
		for _, isbn := range []string{"1", "2", "3", "4"} {
			require.NoError(t, w.Write(&domain.Book{ISBN: isbn, Title: "t"}))
		}
		require.NoError(t, w.Close())
	})

	rc, err := stream.OpenFile(zr, "books.json")
	require.NoError(t, err)

	n := 0
	for _, err := range stream.NewReader[*domain.Book](rc).All() {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestStream_MalformedDocument(t *testing.T) {
	zr := zipWith(t, func(zw *zip.Writer) {
		w, err := zw.Create("books.json")
		require.NoError(t, err)
		_, err = io.WriteString(w, `[{"isbn":"111"`)
		require.NoError(t, err)
	})

	rc, err := stream.OpenFile(zr, "books.json")
	require.NoError(t, err)

	_, err = stream.NewReader[*domain.Book](rc).Collect()
	require.Error(t, err)
}

func TestStream_NotAnArray(t *testing.T) {
	zr := zipWith(t, func(zw *zip.Writer) {
		w, err := zw.Create("books.json")
		require.NoError(t, err)
		_, err = io.WriteString(w, `{"isbn":"111"}`)
		require.NoError(t, err)
	})

	rc, err := stream.OpenFile(zr, "books.json")
	require.NoError(t, err)

	_, err = stream.NewReader[*domain.Book](rc).Collect()
	require.Error(t, err)
}

func TestOpenFile_Missing(t *testing.T) {
	zr := zipWith(t, func(zw *zip.Writer) {})

	_, err := stream.OpenFile(zr, "absent.json")
	require.ErrorIs(t, err, stream.ErrFileNotFound)
}
