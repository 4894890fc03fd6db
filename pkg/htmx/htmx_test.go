package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/actionkit/pkg/htmx"
)

func request(headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  map[string]string
		htmx     bool
		fragment bool
	}{
		{"plain", nil, false, false},
		{"htmx", map[string]string{htmx.HeaderRequest: "true"}, true, true},
		{"boosted", map[string]string{htmx.HeaderRequest: "true", htmx.HeaderBoosted: "true"}, true, false},
		{"not true", map[string]string{htmx.HeaderRequest: "1"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := request(tt.headers)
			assert.Equal(t, tt.htmx, htmx.IsHTMX(r))
			assert.Equal(t, tt.fragment, htmx.WantsFragment(r))
		})
	}

	assert.Equal(t, "list", htmx.Target(request(map[string]string{htmx.HeaderTarget: "list"})))
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("regular", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.Redirect(rec, request(nil), "https://example.com/posts", http.StatusMovedPermanently)
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "https://example.com/posts", rec.Header().Get("Location"))
		assert.Empty(t, rec.Header().Get(htmx.HeaderRedirect))
	})

	t.Run("htmx", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.Redirect(rec, request(map[string]string{htmx.HeaderRequest: "true"}), "/posts", http.StatusFound)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/posts", rec.Header().Get(htmx.HeaderRedirect))
		assert.Empty(t, rec.Header().Get("Location"))
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	htmx.Apply(rec,
		htmx.Retarget("#errors"),
		htmx.Reswap(htmx.SwapOuterHTML),
		htmx.PushURL("false"),
		htmx.ReplaceURL("/x"),
		htmx.Trigger("saved"),
		htmx.Trigger("refresh", "notify"),
		htmx.Refresh(),
	)

	h := rec.Header()
	assert.Equal(t, "#errors", h.Get(htmx.HeaderRetarget))
	assert.Equal(t, "outerHTML", h.Get(htmx.HeaderReswap))
	assert.Equal(t, "false", h.Get(htmx.HeaderPushURL))
	assert.Equal(t, "/x", h.Get(htmx.HeaderReplaceURL))
	assert.Equal(t, "saved, refresh, notify", h.Get(htmx.HeaderTrigger))
	assert.Equal(t, "true", h.Get(htmx.HeaderRefresh))
}
