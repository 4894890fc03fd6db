package internal

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"time"

	"github.com/dmitrymomot/actionkit/pkg/cache"
)

// fragmentPrefix namespaces fragment keys in a shared cache.
const fragmentPrefix = "views/"

func (c *requestContext) Fragment(key string, ttl time.Duration, fn func(w io.Writer) error) (template.HTML, error) {
	if c.app.fragments == nil {
		return "", ErrCacheNotConfigured
	}

	out, err := cache.GetOrSet(c.request.Context(), c.app.fragments, fragmentPrefix+key, ttl,
		func(context.Context) ([]byte, error) {
			var buf bytes.Buffer
			if err := fn(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		})
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil //nolint:gosec // output of a trusted renderer
}

// ExpireFragment removes a cached fragment.
func (a *App) ExpireFragment(ctx context.Context, key string) error {
	if a.fragments == nil {
		return ErrCacheNotConfigured
	}
	return a.fragments.Delete(ctx, fragmentPrefix+key)
}
