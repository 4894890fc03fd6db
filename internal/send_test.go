package internal_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSendData(t *testing.T) {
	t.Parallel()

	t.Run("attachment with sniffed type", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.NoError(t, c.SendData(pngHeader, internal.WithFilename("pixel.png")))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename=pixel.png`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, pngHeader, w.Body.Bytes())
	})

	t.Run("inline with explicit type and status", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.NoError(t, c.SendData([]byte("a,b"),
				internal.WithContentType("text/csv"),
				internal.WithDisposition(internal.DispositionInline),
				internal.WithSendStatus(http.StatusCreated),
			))
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, "inline", w.Header().Get("Content-Disposition"))
	})

	t.Run("after render", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.NoError(t, c.NoContent(http.StatusNoContent))
			require.ErrorIs(t, c.SendData([]byte("x")), internal.ErrDoubleRender)
		})
	})
}

func TestSendFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.NoError(t, c.SendFile(path))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0123456789", w.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=report.txt", w.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, w.Header().Get("Last-Modified"))
	})

	t.Run("range", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Range", "bytes=2-4")
		w := requestVia(t, req, nil, func(c internal.Context) {
			require.NoError(t, c.SendFile(path, internal.WithFilename("r.txt")))
		})

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "234", w.Body.String())
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			err := c.SendFile(filepath.Join(dir, "missing.txt"))
			he := internal.AsHTTPError(err)
			require.NotNil(t, he)
			assert.Equal(t, http.StatusNotFound, he.Code)
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSendStored(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.ErrorIs(t, c.SendStored("a.txt"), internal.ErrStorageNotConfigured)
		})
	})

	store, err := storage.NewDir(t.TempDir())
	require.NoError(t, err)
	obj, err := store.Put(context.Background(), "docs/guide.txt", bytes.NewReader([]byte("guide")))
	require.NoError(t, err)
	opts := []internal.Option{internal.WithStorage(store)}

	t.Run("streams the object", func(t *testing.T) {
		t.Parallel()

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			require.NoError(t, c.SendStored("docs/guide.txt"))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "guide", w.Body.String())
		assert.Equal(t, "attachment; filename=guide.txt", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "5", w.Header().Get("Content-Length"))
		assert.NotEmpty(t, w.Header().Get("ETag"))
	})

	t.Run("fresh request is not modified", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-None-Match", obj.ETag)
		w := requestVia(t, req, opts, func(c internal.Context) {
			require.NoError(t, c.SendStored("docs/guide.txt"))
		})

		assert.Equal(t, http.StatusNotModified, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			he := internal.AsHTTPError(c.SendStored("docs/missing.txt"))
			require.NotNil(t, he)
			assert.Equal(t, http.StatusNotFound, he.Code)
		})
	})
}
