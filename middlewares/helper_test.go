package middlewares_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/internal"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// pagesController registers whatever routes the test needs under the
// "pages" controller path.
type pagesController struct {
	routes func(r internal.Router)
}

func (pagesController) ControllerPath() string { return "pages" }

func (p pagesController) Routes(r internal.Router) { p.routes(r) }

func newApp(routes func(r internal.Router), opts ...internal.Option) *internal.App {
	opts = append(opts,
		internal.WithViews(fstest.MapFS{}),
		internal.WithControllers(pagesController{routes: routes}),
	)
	return internal.New(opts...)
}

func serve(app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func text(body string) internal.HandlerFunc {
	return func(c internal.Context) error {
		return c.String(http.StatusOK, body)
	}
}

// logSink collects JSON log lines.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) entries(t *testing.T) []map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func (s *logSink) find(t *testing.T, msg string) map[string]any {
	t.Helper()
	for _, e := range s.entries(t) {
		if e["msg"] == msg {
			return e
		}
	}
	t.Fatalf("no log entry %q", msg)
	return nil
}
