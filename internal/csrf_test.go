package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
)

func TestCSRFToken(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{internal.WithCookieOptions(cookie.WithSecret(testSecret))}

	t.Run("requires a cookie secret", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			_, err := c.CSRFToken()
			require.ErrorIs(t, err, cookie.ErrNoSecret)
		})
	})

	t.Run("masked tokens differ but all validate", func(t *testing.T) {
		t.Parallel()

		var first, second string
		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			var err error
			first, err = c.CSRFToken()
			require.NoError(t, err)
			second, err = c.CSRFToken()
			require.NoError(t, err)

			assert.NotEqual(t, first, second)
			assert.True(t, c.ValidCSRFToken(first))
			assert.True(t, c.ValidCSRFToken(second))
			assert.False(t, c.ValidCSRFToken("garbage"))
			assert.False(t, c.ValidCSRFToken(""))
		})

		requestVia(t, roundTrip(w, http.MethodPost, "/"), opts, func(c internal.Context) {
			assert.True(t, c.ValidCSRFToken(first))
		})
	})

	t.Run("token from another session is rejected", func(t *testing.T) {
		t.Parallel()

		var foreign string
		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			var err error
			foreign, err = c.CSRFToken()
			require.NoError(t, err)
		})

		w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			_, err := c.CSRFToken()
			require.NoError(t, err)
		})

		requestVia(t, roundTrip(w, http.MethodPost, "/"), opts, func(c internal.Context) {
			assert.False(t, c.ValidCSRFToken(foreign))
		})
	})

	t.Run("no cookie means no valid token", func(t *testing.T) {
		t.Parallel()

		var token string
		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			var err error
			token, err = c.CSRFToken()
			require.NoError(t, err)
		})

		requestVia(t, httptest.NewRequest(http.MethodPost, "/", nil), opts, func(c internal.Context) {
			assert.False(t, c.ValidCSRFToken(token))
		})
	})
}
