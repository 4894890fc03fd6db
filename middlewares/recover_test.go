package middlewares_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes a 500", func(t *testing.T) {
		t.Parallel()

		app := newApp(func(r internal.Router) {
			r.GET("/", func(internal.Context) error { panic("boom") })
		}, internal.WithMiddleware(middlewares.Recover()))

		w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("error handler receives the PanicError", func(t *testing.T) {
		t.Parallel()

		var got error
		app := newApp(func(r internal.Router) {
			r.GET("/", func(internal.Context) error { panic("boom") })
		},
			internal.WithMiddleware(middlewares.Recover()),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				got = err
				return c.String(http.StatusServiceUnavailable, "sorry")
			}),
		)

		w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.Equal(t, "panic: boom", pe.Error())
	})

	t.Run("route middleware without stack", func(t *testing.T) {
		t.Parallel()

		var got error
		app := newApp(func(r internal.Router) {
			r.GET("/", func(internal.Context) error { panic(errors.New("typed")) },
				middlewares.Recover(middlewares.WithRecoverDisablePrintStack()))
		}, internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.NoContent(http.StatusInternalServerError)
		}))

		serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Nil(t, pe.Stack)
		assert.EqualError(t, errors.Unwrap(pe), "typed")
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		t.Parallel()

		app := newApp(func(r internal.Router) {
			r.GET("/", func(internal.Context) error { panic(http.ErrAbortHandler) },
				middlewares.Recover())
		})

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})

	t.Run("no panic passes through", func(t *testing.T) {
		t.Parallel()

		app := newApp(func(r internal.Router) { r.GET("/", text("fine")) },
			internal.WithMiddleware(middlewares.Recover()))

		w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fine", w.Body.String())
	})
}

func TestPanicErrorHelpers(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &middlewares.PanicError{Value: 42})
	assert.True(t, middlewares.IsPanicError(err))
	assert.False(t, middlewares.IsPanicError(errors.New("plain")))

	_, ok := middlewares.AsPanicError(errors.New("plain"))
	assert.False(t, ok)
}
