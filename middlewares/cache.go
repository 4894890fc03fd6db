package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/cache"
)

// CachedPage is a response stored by CacheAction.
type CachedPage struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	Status      int    `json:"status"`
}

// DefaultActionCacheTTL is used when CacheAction is given no TTL.
const DefaultActionCacheTTL = 5 * time.Minute

// CacheActionConfig configures the CacheAction middleware.
type CacheActionConfig struct {
	Key    func(c internal.Context) string
	Prefix string
	TTL    time.Duration
}

// CacheActionOption configures CacheActionConfig.
type CacheActionOption func(*CacheActionConfig)

// WithCacheKey sets how the cache key is built. Defaults to the request URI.
func WithCacheKey(fn func(c internal.Context) string) CacheActionOption {
	return func(cfg *CacheActionConfig) {
		if fn != nil {
			cfg.Key = fn
		}
	}
}

// WithCacheTTL sets how long a page stays cached.
func WithCacheTTL(ttl time.Duration) CacheActionOption {
	return func(cfg *CacheActionConfig) {
		if ttl > 0 {
			cfg.TTL = ttl
		}
	}
}

// WithCachePrefix namespaces the keys of one CacheAction instance.
func WithCachePrefix(prefix string) CacheActionOption {
	return func(cfg *CacheActionConfig) {
		cfg.Prefix = prefix
	}
}

// CacheAction returns middleware that caches whole GET responses. A hit is
// served without running the action; a miss runs it and stores the body
// when the response is a 200 that sets no cookies. htmx requests are keyed
// apart from full page loads. Store failures are logged and never fail
// the request.
//
//	r.GET("/pricing", pricing, middlewares.CacheAction(pages, middlewares.WithCacheTTL(time.Hour)))
func CacheAction(store cache.Cache[CachedPage], opts ...CacheActionOption) internal.Middleware {
	cfg := &CacheActionConfig{
		TTL:    DefaultActionCacheTTL,
		Prefix: "action:",
		Key: func(c internal.Context) string {
			return c.Request().URL.RequestURI()
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := cfg.Prefix + cfg.Key(c)
			if c.IsHTMX() {
				key += "#htmx"
			}

			page, err := store.Get(c, key)
			switch {
			case err == nil:
				c.SetHeader("X-Cache", "HIT")
				if page.ContentType != "" {
					c.SetHeader("Content-Type", page.ContentType)
				}
				c.Response().WriteHeader(page.Status)
				_, werr := c.Response().Write(page.Body)
				return werr
			case !errors.Is(err, cache.ErrNotFound):
				c.LogWarn("action cache read failed", "key", key, "error", err)
			}

			var buf bytes.Buffer
			rw := c.ResponseWriter()
			rw.Tee(&buf)
			c.SetHeader("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			h := c.Response().Header()
			if rw.Status() != http.StatusOK || h.Get("Set-Cookie") != "" {
				return nil
			}
			page = CachedPage{
				Status:      rw.Status(),
				ContentType: h.Get("Content-Type"),
				Body:        buf.Bytes(),
			}
			if err := store.Set(c, key, page, cfg.TTL); err != nil {
				c.LogWarn("action cache write failed", "key", key, "error", err)
			}
			return nil
		}
	}
}

// ExpireAction removes the cached page for key, as built by the configured
// key function plus prefix. Actions pass their Context as ctx.
func ExpireAction(ctx context.Context, store cache.Cache[CachedPage], key string) error {
	if err := store.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}
	return nil
}
