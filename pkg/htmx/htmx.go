package htmx

import (
	"net/http"
	"strings"
)

// IsHTMX reports whether htmx issued the request.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// IsBoosted reports whether the request comes from an hx-boost link or form.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderBoosted) == "true"
}

// WantsFragment reports whether the response should skip the layout.
// Boosted requests swap the whole body, so they still get one.
func WantsFragment(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r)
}

// Target returns the id of the element being swapped.
func Target(r *http.Request) string {
	return r.Header.Get(HeaderTarget)
}

// Redirect sends a redirect. For htmx requests it answers 200 with
// HX-Redirect so the browser navigates instead of swapping the target.
func Redirect(w http.ResponseWriter, r *http.Request, url string, code int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, code)
}

// Option sets an htmx response header.
type Option func(h http.Header)

// Apply sets the given options on w. Call it before the header is written.
func Apply(w http.ResponseWriter, opts ...Option) {
	h := w.Header()
	for _, opt := range opts {
		opt(h)
	}
}

func Retarget(selector string) Option {
	return func(h http.Header) { h.Set(HeaderRetarget, selector) }
}

func Reswap(s Swap) Option {
	return func(h http.Header) { h.Set(HeaderReswap, string(s)) }
}

// PushURL updates browser history. "false" prevents it.
func PushURL(url string) Option {
	return func(h http.Header) { h.Set(HeaderPushURL, url) }
}

func ReplaceURL(url string) Option {
	return func(h http.Header) { h.Set(HeaderReplaceURL, url) }
}

// Trigger fires client-side events. Repeated calls accumulate.
func Trigger(events ...string) Option {
	return func(h http.Header) {
		v := strings.Join(events, ", ")
		if prev := h.Get(HeaderTrigger); prev != "" {
			v = prev + ", " + v
		}
		h.Set(HeaderTrigger, v)
	}
}

func Refresh() Option {
	return func(h http.Header) { h.Set(HeaderRefresh, "true") }
}
