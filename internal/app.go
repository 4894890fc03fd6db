package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/actionkit/pkg/cache"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/health"
	"github.com/dmitrymomot/actionkit/pkg/htmx"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
	"github.com/dmitrymomot/actionkit/pkg/logger"
	"github.com/dmitrymomot/actionkit/pkg/storage"
	"github.com/dmitrymomot/actionkit/pkg/urlfor"
	"github.com/dmitrymomot/actionkit/pkg/view"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App is the composition root: it owns the router, the view engine and the
// per-app services every request context reaches.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookies                 *cookie.Manager
	sessions                *SessionManager
	views                   *view.Engine
	i18n                    *i18n.Bundle
	fragments               cache.Cache[[]byte]
	storage                 storage.Storage
	routes                  *urlfor.Table
	defaultLayout           string
	middlewares             []Middleware
	controllers             []Controller
	controllerPaths         []string
	staticRoutes            []staticRoute
	shutdownHooks           []Hook
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
//
// Example:
//
//	app := actionkit.New(
//	    actionkit.WithMiddleware(middlewares.RequestID(), middlewares.Logger()),
//	    actionkit.WithViews(os.DirFS("views")),
//	    actionkit.WithControllers(
//	        controllers.NewPosts(repo),
//	        controllers.NewPages(),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookies:       cookie.New(),
		routes:        urlfor.NewTable(),
		defaultLayout: DefaultLayout,
		errorHandler:  DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.views == nil {
		a.views = view.New(os.DirFS("views"))
	}
	if a.fragments == nil {
		mem := cache.NewMemory[[]byte](cache.WithCleanupInterval(0))
		a.fragments = mem
		a.shutdownHooks = append(a.shutdownHooks, closeHook(mem))
	}
	if a.sessions != nil {
		a.sessions.SetLogger(a.logger)
	}

	a.setupRoutes()
	a.prewarmLayouts()
	return a
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Routes returns the named route table used for URL generation.
func (a *App) Routes() *urlfor.Table {
	return a.routes
}

// Controllers returns the paths of the registered controllers in
// registration order.
func (a *App) Controllers() []string {
	out := make([]string, len(a.controllerPaths))
	copy(out, a.controllerPaths)
	return out
}

// Views returns the view engine.
func (a *App) Views() *view.Engine {
	return a.views
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run starts the HTTP server and blocks until shutdown.
// Hooks registered by options (cache janitors, stores) run after the
// caller's shutdown hooks.
//
// Example:
//
//	app := actionkit.New(
//	    actionkit.WithControllers(controllers.NewPages()),
//	)
//	err := app.Run(":8080", actionkit.ShutdownHook(redis.Shutdown(client)))
func (a *App) Run(addr string, opts ...RunOption) error {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	cfg.shutdown = append(cfg.shutdown, a.shutdownHooks...)

	return newServer(addr, a.router, cfg).run()
}

// setupRoutes configures the router with middleware and controllers.
func (a *App) setupRoutes() {
	// The request state must exist before any other middleware runs.
	a.router.Use(a.bootstrap)

	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.Liveness())
		a.router.Get(a.healthConfig.readinessPath, health.Readiness(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	for _, ctrl := range a.controllers {
		info := describeController(ctrl)
		a.controllerPaths = append(a.controllerPaths, info.path)
		ctrl.Routes(&routerAdapter{router: a.router, app: a, ctrl: info})
	}
}

// bootstrap creates the state shared by every middleware and the handler of
// one request.
func (a *App) bootstrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(stateKey{}).(*requestState); ok {
			next.ServeHTTP(w, r)
			return
		}
		st := &requestState{rw: NewResponseWriter(w, htmx.IsHTMX(r))}
		ctx := context.WithValue(r.Context(), stateKey{}, st)
		next.ServeHTTP(st.rw, r.WithContext(ctx))
	})
}

// prewarmLayouts parses every controller layout once so that a missing one
// shows up at boot instead of on the first request.
func (a *App) prewarmLayouts() {
	for _, ctrl := range a.controllers {
		l, ok := ctrl.(Layouter)
		if !ok || l.Layout() == "" {
			continue
		}
		if _, err := a.views.Layout(l.Layout()); err != nil {
			a.logger.Warn("controller layout not available",
				slog.String("controller", describeController(ctrl).path),
				slog.String("layout", l.Layout()),
				slog.Any("error", err),
			)
		}
	}
	if a.defaultLayout != "" && a.views.HasLayout(a.defaultLayout) {
		if _, err := a.views.Layout(a.defaultLayout); err != nil {
			a.logger.Warn("default layout failed to parse",
				slog.String("layout", a.defaultLayout),
				slog.Any("error", err),
			)
		}
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError hands err to the error handler unless a response is already
// out. An error from the handler itself ends in a bare 500.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.WarnContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	herr := a.errorHandler(c, err)
	if herr == nil || c.Written() {
		return
	}
	a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr), slog.Any("cause", err))
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func closeHook(c io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	actionkit.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
