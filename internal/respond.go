package internal

import (
	"cmp"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Response formats understood by Format and RespondTo.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatText = "text"
	FormatJS   = "js"
	FormatAny  = "any"
)

// Formats maps a format to the handler that answers it. FormatAny answers
// when nothing else matches.
//
//	return c.RespondTo(actionkit.Formats{
//	    actionkit.FormatHTML: func(c actionkit.Context) error { return nil },
//	    actionkit.FormatJSON: func(c actionkit.Context) error { return c.JSON(200, post) },
//	})
type Formats map[string]HandlerFunc

// formatOrder breaks ties when the client accepts anything.
var formatOrder = []string{FormatHTML, FormatJSON, FormatXML, FormatText, FormatJS}

var mediaTypeFormats = map[string]string{
	"text/html":              FormatHTML,
	"application/xhtml+xml":  FormatHTML,
	"application/json":       FormatJSON,
	"application/xml":        FormatXML,
	"text/xml":               FormatXML,
	"text/plain":             FormatText,
	"text/javascript":        FormatJS,
	"application/javascript": FormatJS,
}

// Format returns the format named by a "format" route or query parameter,
// else the first format the Accept header asks for, else html.
func (c *requestContext) Format() string {
	if f := c.explicitFormat(); f != "" {
		return f
	}
	for _, f := range c.acceptedFormats() {
		if f != FormatAny {
			return f
		}
	}
	return FormatHTML
}

func (c *requestContext) explicitFormat() string {
	if f := chi.URLParam(c.request, "format"); f != "" {
		return strings.ToLower(f)
	}
	return strings.ToLower(c.request.URL.Query().Get("format"))
}

// RespondTo picks the handler for the request's format. An explicit format
// must match exactly; Accept entries are tried by quality. Without a match
// the response is 406 Not Acceptable.
func (c *requestContext) RespondTo(formats Formats) error {
	c.response.Header().Add("Vary", "Accept")

	if f := c.explicitFormat(); f != "" {
		if h, ok := formats[f]; ok {
			return h(c)
		}
		if h, ok := formats[FormatAny]; ok {
			return h(c)
		}
		return ErrNotAcceptable("")
	}

	accepted := c.acceptedFormats()
	if len(accepted) == 0 {
		accepted = []string{FormatAny}
	}
	for _, f := range accepted {
		if f == FormatAny {
			for _, pref := range formatOrder {
				if h, ok := formats[pref]; ok {
					return h(c)
				}
			}
			if h, ok := formats[FormatAny]; ok {
				return h(c)
			}
			continue
		}
		if h, ok := formats[f]; ok {
			return h(c)
		}
	}
	if h, ok := formats[FormatAny]; ok {
		return h(c)
	}
	return ErrNotAcceptable("")
}

// acceptedFormats parses the Accept header into formats ordered by quality.
// Wildcards become FormatAny; unknown media types are skipped.
func (c *requestContext) acceptedFormats() []string {
	header := c.request.Header.Get("Accept")
	if header == "" {
		return nil
	}

	type entry struct {
		format string
		q      float64
	}
	var entries []entry
	for _, part := range strings.Split(header, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if v, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}

		format, ok := mediaTypeFormats[mt]
		switch {
		case mt == "*/*" || strings.HasSuffix(mt, "/*"):
			format = FormatAny
		case !ok:
			continue
		}
		entries = append(entries, entry{format: format, q: q})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(b.q, a.q)
	})

	formats := make([]string, 0, len(entries))
	for _, e := range entries {
		if !slices.Contains(formats, e.format) {
			formats = append(formats, e.format)
		}
	}
	return formats
}

// FreshWhen implements conditional GET. etag may be given bare or quoted;
// a zero lastModified is ignored. When both validators are present in the
// request, both must match.
func (c *requestContext) FreshWhen(etag string, lastModified time.Time) bool {
	h := c.response.Header()
	if etag != "" {
		etag = quoteETag(etag)
		h.Set("ETag", etag)
	}
	if !lastModified.IsZero() {
		h.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	}

	if c.request.Method != http.MethodGet && c.request.Method != http.MethodHead {
		return false
	}
	if !c.isFresh(etag, lastModified) {
		return false
	}

	// 304 carries no entity headers.
	h.Del("Content-Type")
	h.Del("Content-Length")
	c.response.WriteHeader(http.StatusNotModified)
	return true
}

func (c *requestContext) isFresh(etag string, lastModified time.Time) bool {
	inm := c.request.Header.Get("If-None-Match")
	ims := c.request.Header.Get("If-Modified-Since")
	if inm == "" && ims == "" {
		return false
	}

	if inm != "" {
		if etag == "" || !etagMatches(inm, etag) {
			return false
		}
	}
	if ims != "" {
		if lastModified.IsZero() {
			return false
		}
		since, err := http.ParseTime(ims)
		if err != nil || lastModified.Truncate(time.Second).After(since) {
			return false
		}
	}
	return true
}

func quoteETag(etag string) string {
	if strings.HasPrefix(etag, `"`) || strings.HasPrefix(etag, `W/"`) {
		return etag
	}
	return `"` + etag + `"`
}

// etagMatches is the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
