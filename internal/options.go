package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/actionkit/pkg/cache"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
	"github.com/dmitrymomot/actionkit/pkg/logger"
	"github.com/dmitrymomot/actionkit/pkg/session"
	"github.com/dmitrymomot/actionkit/pkg/storage"
	"github.com/dmitrymomot/actionkit/pkg/view"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithControllers registers controllers. Each controller's Routes method is
// called during setup, in order.
func WithControllers(ctrls ...Controller) Option {
	return func(a *App) {
		a.controllers = append(a.controllers, ctrls...)
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	actionkit.New(
//	    actionkit.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets the handler for errors returned by actions and
// middleware. Defaults to DefaultErrorHandler.
//
// Example:
//
//	actionkit.WithErrorHandler(func(c actionkit.Context, err error) error {
//	    if errors.Is(err, repo.ErrNotFound) {
//	        return c.RenderView(render.Name("errors/404"), render.Options{Status: 404})
//	    }
//	    return actionkit.DefaultErrorHandler(c, err)
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	actionkit.WithHealthChecks(
//	    actionkit.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger builds the app logger from cfg with a component name and
// optional extractors. Extractors pull values such as request_id from the
// request context.
//
// Example:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	actionkit.New(
//	    actionkit.WithLogger(cfg, "web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(cfg logger.Config, component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(cfg, extractors...).With(slog.String("component", component))
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager. A secret is required for
// signed and encrypted cookies, flash messages and CSRF tokens.
//
// Example:
//
//	actionkit.New(
//	    actionkit.WithCookieOptions(
//	        cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookies = cookie.New(opts...)
	}
}

// WithSession enables server-side sessions over store.
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	actionkit.New(
//	    actionkit.WithSession(session.NewRedisStore(client, session.RedisConfig{}),
//	        actionkit.WithSessionMaxAge(86400*30),
//	        actionkit.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessions = NewSessionManager(store, opts...)
	}
}

// WithViews sets the filesystem views are loaded from. Defaults to the
// "views" directory of the working directory.
//
// Example:
//
//	//go:embed views
//	var views embed.FS
//
//	sub, _ := fs.Sub(views, "views")
//	actionkit.New(actionkit.WithViews(sub, view.WithCacheSize(0)))
func WithViews(fsys fs.FS, opts ...view.Option) Option {
	return func(a *App) {
		a.views = view.New(fsys, opts...)
	}
}

// WithLayout sets the app layout used when neither the render call nor the
// controller names one. An empty name disables it.
func WithLayout(name string) Option {
	return func(a *App) {
		a.defaultLayout = name
	}
}

// WithI18n sets the translation bundle used by Context.T.
// Pair it with middlewares.I18n to pick the language per request.
func WithI18n(b *i18n.Bundle) Option {
	return func(a *App) {
		a.i18n = b
	}
}

// WithFragmentCache sets the backend of Context.Fragment. Defaults to an
// in-memory cache.
//
// Example:
//
//	actionkit.WithFragmentCache(cache.NewRedis[[]byte](client, cache.Raw{}, cache.RedisConfig{Prefix: "views"}))
func WithFragmentCache(c cache.Cache[[]byte]) Option {
	return func(a *App) {
		if c != nil {
			a.fragments = c
		}
	}
}

// WithStorage configures the object storage SendStored streams from.
//
// Example:
//
//	s3, err := storage.NewS3(cfg)
//	actionkit.New(actionkit.WithStorage(s3))
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}
