package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are tried in order for an ID set by a proxy.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

const maxRequestIDLength = 128

type requestIDOptions struct {
	headers        []string
	generate       func() string
	responseHeader string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDOptions)

// WithRequestIDHeaders replaces the headers trusted for an upstream ID.
// With no headers every request gets a fresh ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(o *requestIDOptions) {
		o.headers = headers
	}
}

// WithRequestIDGenerator replaces uuid.NewString.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(o *requestIDOptions) {
		if gen != nil {
			o.generate = gen
		}
	}
}

// WithRequestIDResponseHeader sets the header the ID is echoed in.
// An empty name disables the echo.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(o *requestIDOptions) {
		o.responseHeader = header
	}
}

// RequestID assigns an ID to each request. An upstream ID is kept when it is
// at most 128 printable ASCII characters. The ID is stored in the request
// context, echoed in the response and attached to HTTP errors returned by
// the action.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	o := requestIDOptions{
		headers:        DefaultRequestIDHeaders,
		generate:       uuid.NewString,
		responseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id := o.upstream(c)
			if id == "" {
				id = o.generate()
			}

			c.Set(requestIDKey{}, id)
			if o.responseHeader != "" {
				c.SetHeader(o.responseHeader, id)
			}

			err := next(c)
			if he := internal.AsHTTPError(err); he != nil && he.RequestID == "" {
				he.RequestID = id
			}
			return err
		}
	}
}

func (o requestIDOptions) upstream(c internal.Context) string {
	for _, h := range o.headers {
		if v := c.Header(h); validRequestID(v) {
			return v
		}
	}
	return ""
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the request's ID, or "" when RequestID is not installed.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds "request_id" to log records written with the
// request context.
//
//	actionkit.WithLogger(cfg, "web", middlewares.RequestIDExtractor())
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
