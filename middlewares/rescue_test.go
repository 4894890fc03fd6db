package middlewares_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/middlewares"
)

var (
	errRecordNotFound = errors.New("record not found")
	errStaleObject    = errors.New("stale object")
)

func TestRescue(t *testing.T) {
	t.Parallel()

	rescue := middlewares.Rescue(
		middlewares.RescueStatus(errRecordNotFound, http.StatusNotFound, "Post not found"),
		middlewares.RescueFrom(errStaleObject, func(c internal.Context, _ error) error {
			return c.String(http.StatusConflict, "reload and try again")
		}),
	)

	app := newApp(func(r internal.Router) {
		r.Use(rescue)
		r.GET("/missing", func(internal.Context) error {
			return fmt.Errorf("load post: %w", errRecordNotFound)
		})
		r.GET("/stale", func(internal.Context) error { return errStaleObject })
		r.GET("/other", func(internal.Context) error { return errors.New("other") })
		r.GET("/http", func(internal.Context) error { return internal.ErrForbidden("nope") })
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/missing", http.StatusNotFound, "Post not found"},
		{"/stale", http.StatusConflict, "reload and try again"},
		{"/other", http.StatusInternalServerError, "Internal Server Error"},
		{"/http", http.StatusForbidden, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			w := serve(app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRescue_GroupScope(t *testing.T) {
	t.Parallel()

	app := newApp(func(r internal.Router) {
		r.Group(func(r internal.Router) {
			r.Use(middlewares.Rescue(middlewares.RescueStatus(errRecordNotFound, http.StatusNotFound, "")))
			r.GET("/inside", func(internal.Context) error { return errRecordNotFound })
		})
		r.GET("/outside", func(internal.Context) error { return errRecordNotFound })
	})

	assert.Equal(t, http.StatusNotFound, serve(app, httptest.NewRequest(http.MethodGet, "/inside", nil)).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(app, httptest.NewRequest(http.MethodGet, "/outside", nil)).Code)
}
