package internal_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/session"
)

func TestExtractor(t *testing.T) {
	t.Parallel()

	t.Run("first non-empty source wins", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
		req.Header.Set("X-Lang", "fr")

		requestVia(t, req, nil, func(c internal.Context) {
			e := internal.NewExtractor(
				internal.FromHeader("X-Missing"),
				internal.FromQuery("lang"),
				internal.FromHeader("X-Lang"),
			)
			v, ok := e.Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "de", v)
		})
	})

	t.Run("all sources miss", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			v, ok := internal.NewExtractor(internal.FromQuery("q"), internal.FromCookie("c")).Extract(c)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	})

	t.Run("param and form", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/items/9", nil), nil, func(c internal.Context) {
			v, ok := internal.NewExtractor(internal.FromParam("id")).Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "9", v)
		})

		form := url.Values{"token": {"abc"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		requestVia(t, req, nil, func(c internal.Context) {
			v, ok := internal.NewExtractor(internal.FromForm("token")).Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "abc", v)
		})
	})

	t.Run("cookies", func(t *testing.T) {
		t.Parallel()

		opts := []internal.Option{internal.WithCookieOptions(cookie.WithSecret(testSecret))}
		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			require.NoError(t, c.SetCookie("plain", "p", 60))
			require.NoError(t, c.SetCookieSigned("signed", "s", 60))
		})

		req := roundTrip(w, http.MethodGet, "/")
		req.AddCookie(&http.Cookie{Name: "forged", Value: "not-signed"})
		requestVia(t, req, opts, func(c internal.Context) {
			v, ok := internal.NewExtractor(internal.FromCookieSigned("forged"), internal.FromCookieSigned("signed")).Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "s", v)

			v, ok = internal.NewExtractor(internal.FromCookie("plain")).Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "p", v)
		})
	})

	t.Run("session values are formatted", func(t *testing.T) {
		t.Parallel()

		opts := []internal.Option{internal.WithSession(session.NewMemoryStore())}
		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			require.NoError(t, c.SetSessionValue("user_id", 42))
			v, ok := internal.NewExtractor(internal.FromSession("user_id")).Extract(c)
			assert.True(t, ok)
			assert.Equal(t, "42", v)

			_, ok = internal.NewExtractor(internal.FromSession("missing")).Extract(c)
			assert.False(t, ok)
		})
	})
}
