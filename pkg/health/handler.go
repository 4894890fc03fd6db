package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Liveness always answers 200 while the process serves requests.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, http.StatusOK, Report{Status: StatusHealthy})
	}
}

// Readiness runs checks on every request: 200 when all pass, 503 otherwise.
func Readiness(checks Checks, opts ...Option) http.HandlerFunc {
	o := newOptions(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		rep := run(r.Context(), checks, o)
		code := http.StatusOK
		if !rep.Healthy() {
			code = http.StatusServiceUnavailable
		}
		write(w, r, code, rep)
	}
}

func write(w http.ResponseWriter, r *http.Request, code int, rep Report) {
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(rep)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}
