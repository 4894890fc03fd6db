package middlewares

import (
	"net/http"
	"slices"

	"github.com/dmitrymomot/actionkit/internal"
)

// Default token sources.
const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "authenticity_token"
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	Extractor   internal.Extractor
	SafeMethods []string
	Skip        func(c internal.Context) bool
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFExtractor sets where the token is read from.
func WithCSRFExtractor(ext internal.Extractor) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Extractor = ext
	}
}

// WithCSRFSkip exempts requests for which fn returns true, such as webhooks.
func WithCSRFSkip(fn func(c internal.Context) bool) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Skip = fn
	}
}

// CSRF returns middleware that requires an authenticity token on every
// request with an unsafe method. The token comes from c.CSRFToken() and is
// sent back in the X-CSRF-Token header or the authenticity_token form
// field. A missing or wrong token fails with 422 Unprocessable Entity.
//
// The app needs a cookie secret: the raw token lives in a signed cookie.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		Extractor: internal.NewExtractor(
			internal.FromHeader(CSRFHeader),
			internal.FromForm(CSRFFormField),
		),
		SafeMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if slices.Contains(cfg.SafeMethods, c.Request().Method) || (cfg.Skip != nil && cfg.Skip(c)) {
				return next(c)
			}

			token, _ := cfg.Extractor.Extract(c)
			if !c.ValidCSRFToken(token) {
				c.LogWarn("csrf token verification failed", "method", c.Request().Method, "path", c.Request().URL.Path)
				return internal.ErrUnprocessable("Invalid authenticity token",
					internal.WithError(ErrInvalidAuthenticityToken),
					internal.WithErrorCode("invalid_authenticity_token"),
				)
			}
			return next(c)
		}
	}
}
