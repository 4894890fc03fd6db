package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
)

type HTMLPagesController struct{}

func (HTMLPagesController) Routes(r internal.Router) {
	r.GET("/pages", func(c internal.Context) error {
		return c.String(http.StatusOK, c.ControllerPath())
	})
}

type AdminUsersHandler struct{}

func (*AdminUsersHandler) Routes(r internal.Router) {
	r.GET("/admin/users", func(c internal.Context) error {
		return c.String(http.StatusOK, c.ControllerPath())
	})
}

func newTestApp(opts ...internal.Option) *internal.App {
	return internal.New(append([]internal.Option{internal.WithViews(fstest.MapFS{})}, opts...)...)
}

func get(app http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestApp_Controllers(t *testing.T) {
	t.Parallel()

	app := newTestApp(internal.WithControllers(HTMLPagesController{}, &AdminUsersHandler{}))
	assert.Equal(t, []string{"html_pages", "admin_users"}, app.Controllers())

	assert.Equal(t, "html_pages", get(app, "/pages").Body.String())
	assert.Equal(t, "admin_users", get(app, "/admin/users").Body.String())

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()
		paths := app.Controllers()
		paths[0] = "changed"
		assert.Equal(t, "html_pages", app.Controllers()[0])
	})
}

func TestApp_NotFound(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusNotFound, get(newTestApp(), "/nope").Code)
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(internal.WithNotFoundHandler(func(c internal.Context) error {
			return c.String(http.StatusNotFound, "missing: "+c.Request().URL.Path)
		}))
		w := get(app, "/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "missing: /nope", w.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(
			internal.WithControllers(HTMLPagesController{}),
			internal.WithMethodNotAllowedHandler(func(c internal.Context) error {
				return c.String(http.StatusMethodNotAllowed, "nope")
			}),
		)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/pages", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "nope", w.Body.String())
	})
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	t.Run("default paths", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(internal.WithHealthChecks())
		assert.Equal(t, http.StatusOK, get(app, "/health/live").Code)
		assert.Equal(t, http.StatusOK, get(app, "/health/ready").Code)
	})

	t.Run("failing readiness check", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(internal.WithHealthChecks(
			internal.WithLivenessPath("/livez"),
			internal.WithReadinessPath("/readyz"),
			internal.WithReadinessCheck("db", func(context.Context) error { return errors.New("down") }),
		))
		assert.Equal(t, http.StatusOK, get(app, "/livez").Code)
		assert.Equal(t, http.StatusServiceUnavailable, get(app, "/readyz").Code)
	})
}

func TestApp_StaticFiles(t *testing.T) {
	t.Parallel()

	assets := fstest.MapFS{
		"public/app.css": {Data: []byte("body{}")},
	}
	app := newTestApp(internal.WithStaticFiles("/static/", assets, "public"))

	w := get(app, "/static/app.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	assert.Equal(t, http.StatusNotFound, get(app, "/static/").Code)
	assert.Equal(t, http.StatusNotFound, get(app, "/static/missing.css").Code)
}

type stampKey struct{}

func TestApp_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("values reach the handler", func(t *testing.T) {
		t.Parallel()

		stamp := func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				c.Set(stampKey{}, "stamped")
				c.SetHeader("X-Stamp", "1")
				return next(c)
			}
		}
		var got any
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, []internal.Option{internal.WithMiddleware(stamp)}, func(c internal.Context) {
			got = c.Get(stampKey{})
			_ = c.String(http.StatusOK, "ok")
		})
		assert.Equal(t, "stamped", got)
		assert.Equal(t, "1", w.Header().Get("X-Stamp"))
	})

	t.Run("errors go to the error handler", func(t *testing.T) {
		t.Parallel()

		deny := func(internal.HandlerFunc) internal.HandlerFunc {
			return func(internal.Context) error {
				return internal.ErrForbidden("denied")
			}
		}
		called := false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, []internal.Option{internal.WithMiddleware(deny)}, func(internal.Context) {
			called = true
		})
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "denied", w.Body.String())
	})

	t.Run("middlewares run in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) internal.Middleware {
			return func(next internal.HandlerFunc) internal.HandlerFunc {
				return func(c internal.Context) error {
					order = append(order, name)
					return next(c)
				}
			}
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, []internal.Option{internal.WithMiddleware(mark("a"), mark("b"))}, func(internal.Context) {
			order = append(order, "handler")
		})
		assert.Equal(t, []string{"a", "b", "handler"}, order)
	})
}

func TestApp_Logger(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	require.NotNil(t, app.Logger())
	require.NotNil(t, app.Views())
	require.NotNil(t, app.Routes())
	require.NotNil(t, app.Router())
}
