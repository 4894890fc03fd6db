package actionkit

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/cache"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/health"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
	"github.com/dmitrymomot/actionkit/pkg/logger"
	"github.com/dmitrymomot/actionkit/pkg/session"
	"github.com/dmitrymomot/actionkit/pkg/storage"
	"github.com/dmitrymomot/actionkit/pkg/view"
)

// Type aliases - public API
type (
	// App is the composition root: router, view engine, cookies, sessions
	// and the controllers registered on it.
	App = internal.App

	// Router is the interface controllers use to declare routes and actions.
	Router = internal.Router

	// Context is the controller instance of one request: request access,
	// rendering, redirects, cookies, session, flash and translations.
	Context = internal.Context

	// Controller declares routes on a router.
	Controller = internal.Controller

	// ControllerPather overrides the controller path derived from the type name.
	ControllerPather = internal.ControllerPather

	// Layouter names the layout for every action of a controller.
	Layouter = internal.Layouter

	// HandlerFunc is the signature for actions.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from actions and middleware.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Hook runs at server startup or shutdown.
	Hook = internal.Hook

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Formats maps response formats to handlers for RespondTo.
	Formats = internal.Formats

	// SendOption configures SendData, SendFile and SendStored.
	SendOption = internal.SendOption

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ResponseWriter wraps http.ResponseWriter with hooks and htmx support.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Extractor reads a value from the first request source that has one.
	Extractor = internal.Extractor

	// ExtractorSource is one source of an Extractor.
	ExtractorSource = internal.ExtractorSource

	// TranslatorKey and LanguageKey are the context keys of the request's
	// translator and language.
	TranslatorKey = internal.TranslatorKey
	LanguageKey   = internal.LanguageKey
)

// Response formats.
const (
	FormatHTML = internal.FormatHTML
	FormatJSON = internal.FormatJSON
	FormatXML  = internal.FormatXML
	FormatText = internal.FormatText
	FormatJS   = internal.FormatJS
	FormatAny  = internal.FormatAny
)

// Content dispositions.
const (
	DispositionAttachment = internal.DispositionAttachment
	DispositionInline     = internal.DispositionInline
)

// DefaultLayout is the layout used when nothing else names one.
const DefaultLayout = internal.DefaultLayout

// CSRFCookie is the signed cookie holding the authenticity token.
const CSRFCookie = internal.CSRFCookie

// Errors returned by Context methods.
var (
	ErrDoubleRender         = internal.ErrDoubleRender
	ErrStorageNotConfigured = internal.ErrStorageNotConfigured
	ErrCacheNotConfigured   = internal.ErrCacheNotConfigured
	ErrNoAction             = internal.ErrNoAction
	ErrInvalidPartial       = internal.ErrInvalidPartial

	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrCookieNotFound       = cookie.ErrNotFound
	ErrCookieNoSecret       = cookie.ErrNoSecret
	ErrTemplateNotFound     = view.ErrTemplateNotFound
	ErrLayoutNotFound       = view.ErrLayoutNotFound
)

// New creates an application with the given options.
//
// Example:
//
//	app := actionkit.New(
//	    actionkit.WithMiddleware(middlewares.RequestID(), middlewares.Logger()),
//	    actionkit.WithViews(os.DirFS("views")),
//	    actionkit.WithControllers(controllers.NewPosts(repo)),
//	)
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds app-wide middleware, applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithControllers registers controllers. Each one's Routes method is called
// during setup.
func WithControllers(ctrls ...Controller) Option {
	return internal.WithControllers(ctrls...)
}

// WithStaticFiles serves subDir of fsys under pattern without directory listings.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
//	actionkit.WithHealthChecks(
//	    actionkit.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger builds the app logger from cfg. component is added to every
// entry; extractors pull request-scoped values from the context.
func WithLogger(cfg logger.Config, component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(cfg, component, extractors...)
}

func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager. Signed and encrypted
// cookies, flash and CSRF tokens need cookie.WithSecret.
func WithCookieOptions(opts ...cookie.Option) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSession enables server-side sessions backed by store. Sessions are
// loaded lazily and saved before the response is written.
func WithSession(store session.Store, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithViews sets the file system views are loaded from. Defaults to ./views.
func WithViews(fsys fs.FS, opts ...view.Option) Option {
	return internal.WithViews(fsys, opts...)
}

// WithLayout sets the app default layout. An empty name disables it.
func WithLayout(name string) Option {
	return internal.WithLayout(name)
}

func WithI18n(b *i18n.Bundle) Option {
	return internal.WithI18n(b)
}

// WithFragmentCache sets the store for Context.Fragment. Defaults to memory.
func WithFragmentCache(c cache.Cache[[]byte]) Option {
	return internal.WithFragmentCache(c)
}

// WithStorage sets the object storage read by Context.SendStored.
func WithStorage(s storage.Storage) Option {
	return internal.WithStorage(s)
}

// Health check options

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check. Checks run in parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Session options

func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// Run options

// Logger overrides the logger used by Run. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, hooks included. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn after the port is bound and before serving.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during shutdown, in registration order.
//
//	app.Run(":8080", actionkit.ShutdownHook(redis.Shutdown(client)))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Send options

func WithFilename(name string) SendOption {
	return internal.WithFilename(name)
}

func WithContentType(ct string) SendOption {
	return internal.WithContentType(ct)
}

func WithDisposition(d string) SendOption {
	return internal.WithDisposition(d)
}

func WithSendStatus(code int) SendOption {
	return internal.WithSendStatus(code)
}

// HTTP errors

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

func WithTitle(title string) HTTPErrorOption         { return internal.WithTitle(title) }
func WithDetail(detail string) HTTPErrorOption       { return internal.WithDetail(detail) }
func WithErrorCode(code string) HTTPErrorOption      { return internal.WithErrorCode(code) }
func WithRequestID(id string) HTTPErrorOption        { return internal.WithRequestID(id) }
func WithError(err error) HTTPErrorOption            { return internal.WithError(err) }
func IsHTTPError(err error) bool                     { return internal.IsHTTPError(err) }
func AsHTTPError(err error) *HTTPError               { return internal.AsHTTPError(err) }
func DefaultErrorHandler(c Context, err error) error { return internal.DefaultErrorHandler(c, err) }

// Request helpers

// ContextValue returns the value stored under key with c.Set, or the zero T.
//
//	user := actionkit.ContextValue[*User](c, userKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a URL parameter converted to T, or the zero T.
//
//	id := actionkit.Param[int64](c, "id")
func Param[T internal.Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

func Query[T internal.Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

func QueryDefault[T internal.Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

func Form[T internal.Scalar](c Context, name string) T {
	return internal.Form[T](c, name)
}

// Extractors

func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource       { return internal.FromHeader(name) }
func FromQuery(name string) ExtractorSource        { return internal.FromQuery(name) }
func FromParam(name string) ExtractorSource        { return internal.FromParam(name) }
func FromForm(name string) ExtractorSource         { return internal.FromForm(name) }
func FromCookie(name string) ExtractorSource       { return internal.FromCookie(name) }
func FromCookieSigned(name string) ExtractorSource { return internal.FromCookieSigned(name) }
func FromSession(key string) ExtractorSource       { return internal.FromSession(key) }

// SessionValue returns a typed session value.
//
//	theme, err := actionkit.SessionValue[string](sess, "theme")
func SessionValue[T any](sess *session.Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr returns a typed session value or defaultVal.
func SessionValueOr[T any](sess *session.Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}
