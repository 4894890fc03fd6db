package internal

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/htmx"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
	"github.com/dmitrymomot/actionkit/pkg/redirect"
	"github.com/dmitrymomot/actionkit/pkg/render"
	"github.com/dmitrymomot/actionkit/pkg/session"
	"github.com/dmitrymomot/actionkit/pkg/urlfor"
)

// TranslatorKey is the context key for the request's *i18n.Translator.
type TranslatorKey struct{}

// LanguageKey is the context key for the request's resolved language.
type LanguageKey struct{}

// stateKey is the context key for the per-request state shared between
// middleware and the handler.
type stateKey struct{}

// Component is anything that renders itself, templ components included.
type Component = templ.Component

// Context is the controller instance of a request. Every capability of the
// framework is reached through it: rendering, redirection, cookies, session,
// flash, CSRF protection, caching, conditional GET, content negotiation,
// file streaming, translation and logging.
//
// Context implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the http.ResponseWriter.
	Response() http.ResponseWriter

	// ResponseWriter returns the framework writer with status, size and hooks.
	ResponseWriter() *ResponseWriter

	// Param returns the URL parameter by name.
	Param(name string) string

	// Query returns the query parameter by name.
	Query(name string) string

	// QueryDefault returns the query parameter or a default value.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Set stores a value in the request context.
	Set(key, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// IsHTMX returns true if the request was made by htmx.
	IsHTMX() bool

	// Written returns true if the response has been written.
	Written() bool

	// ControllerPath returns the path of the controller handling the request,
	// e.g. "posts" or "admin/posts". Empty outside a controller.
	ControllerPath() string

	// ActionName returns the current action. Empty for plain routes.
	ActionName() string

	// Render writes a component as HTML with the given status code.
	Render(code int, component Component) error

	// RenderView normalizes target and opts and renders the result.
	// An optional update callback writes the body directly.
	//
	//	c.RenderView(render.None(), render.Options{})                  // current action
	//	c.RenderView(render.Name("edit"), render.Options{Status: 422}) // another action
	//	c.RenderView(render.With(render.Options{JSON: post}), render.Options{})
	RenderView(target render.Target, opts render.Options, update ...render.UpdateFunc) error

	// RenderToString renders like RenderView but returns the body.
	RenderToString(target render.Target, opts render.Options) (string, error)

	// JSON writes a JSON response.
	JSON(code int, v any) error

	// XML writes an XML response.
	XML(code int, v any) error

	// String writes a plain text response.
	String(code int, s string) error

	// NoContent writes a response with only the status code.
	NoContent(code int) error

	// Redirect sends a redirect to url. For htmx requests it answers with
	// HX-Redirect instead.
	Redirect(code int, url string) error

	// RedirectTo resolves target and redirects to it.
	//
	//	c.RedirectTo(redirect.To("/posts"))
	//	c.RedirectTo(redirect.Back())
	//	c.RedirectTo(redirect.Route(urlfor.Params{"action": "show", "id": 1}))
	//	c.RedirectTo(redirect.Record(post), redirect.WithStatus("see_other"))
	RedirectTo(target redirect.Target, opts ...redirect.Option) error

	// URLFor generates a URL for a named action.
	URLFor(params urlfor.Params) (string, error)

	// FreshWhen sets ETag and Last-Modified and answers 304 when the request
	// already has the current version. It returns true when it did.
	FreshWhen(etag string, lastModified time.Time) bool

	// Format returns the requested response format ("html", "json", ...).
	Format() string

	// RespondTo runs the handler for the best format the client accepts.
	RespondTo(formats Formats) error

	// SendData sends data as a file download.
	SendData(data []byte, opts ...SendOption) error

	// SendFile streams a file from disk with range and conditional support.
	SendFile(path string, opts ...SendOption) error

	// SendStored streams an object from the configured storage.
	SendStored(key string, opts ...SendOption) error

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int) error

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value after verifying its signature.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	SetCookieSigned(name, value string, maxAge int) error

	// CookieEncrypted returns a decrypted cookie value.
	CookieEncrypted(name string) (string, error)

	// SetCookieEncrypted sets an encrypted cookie.
	SetCookieEncrypted(name, value string, maxAge int) error

	// Flash returns the flash of the request. Messages set on it are shown
	// on the next request.
	Flash() *cookie.Flash

	// SetFlash sets a flash message for the next request.
	SetFlash(key, message string)

	// Session returns the current session, creating an unsaved one if the
	// request has none. It is stored when modified.
	// Returns session.ErrNotConfigured if WithSession was not used.
	Session() (*session.Session, error)

	// SessionValue returns a session value, nil when missing.
	SessionValue(key string) (any, error)

	// SetSessionValue stores a session value.
	SetSessionValue(key string, val any) error

	// DeleteSessionValue removes a session value.
	DeleteSessionValue(key string) error

	// ResetSession destroys the session and starts an empty one.
	ResetSession() error

	// CSRFToken returns a masked authenticity token for forms and meta tags.
	CSRFToken() (string, error)

	// ValidCSRFToken reports whether token matches the request's
	// authenticity token.
	ValidCSRFToken(token string) bool

	// Fragment returns the cached output of fn under key, rendering and
	// storing it on a miss.
	Fragment(key string, ttl time.Duration, fn func(w io.Writer) error) (template.HTML, error)

	// T translates key in the request language. Keys starting with "." are
	// looked up under "controller.action".
	T(key string, placeholders ...i18n.M) string

	// Language returns the request language.
	Language() string

	// Logger returns the app logger.
	Logger() *slog.Logger

	// LogDebug logs a debug message with the request context.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with the request context.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with the request context.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with the request context.
	LogError(msg string, attrs ...any)

	// Error creates an HTTPError with the given status code and message.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
}

// requestState is shared by every Context created for one request.
type requestState struct {
	rw          *ResponseWriter
	controller  *controllerInfo
	session     *session.Session
	flash       *cookie.Flash
	action      string
	csrfToken   []byte
	csrfRotated bool
}

type requestContext struct {
	response http.ResponseWriter
	request  *http.Request
	state    *requestState
	app      *App
}

// newContext returns a context over the request state. The state is created
// when the request did not pass through App.bootstrap.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	st, ok := r.Context().Value(stateKey{}).(*requestState)
	if !ok {
		st = &requestState{rw: NewResponseWriter(w, htmx.IsHTMX(r))}
		r = r.WithContext(context.WithValue(r.Context(), stateKey{}, st))
		w = st.rw
	}

	return &requestContext{
		request:  r,
		response: w,
		state:    st,
		app:      app,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.state.rw
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) IsHTMX() bool {
	return htmx.IsHTMX(c.request)
}

func (c *requestContext) Written() bool {
	return c.state.rw.Written()
}

func (c *requestContext) ControllerPath() string {
	if c.state.controller == nil {
		return ""
	}
	return c.state.controller.path
}

func (c *requestContext) ActionName() string {
	return c.state.action
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Redirect(code int, url string) error {
	if c.Written() {
		return ErrDoubleRender
	}
	htmx.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) RedirectTo(target redirect.Target, opts ...redirect.Option) error {
	res, err := redirect.Resolve(redirect.FromHTTP(c.request), c.urlBuilder(), target, opts...)
	if err != nil {
		return err
	}
	return c.Redirect(res.Status, res.URL)
}

func (c *requestContext) URLFor(params urlfor.Params) (string, error) {
	return c.urlBuilder().URLFor(params)
}

func (c *requestContext) urlBuilder() *urlfor.Builder {
	return urlfor.NewBuilder(c.app.routes, redirect.FromHTTP(c.request), c.ControllerPath(), c.ActionName()).
		WithRecall(c.request)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.app.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) error {
	return c.app.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.app.cookies.Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.app.cookies.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.app.cookies.SetSigned(c.response, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.app.cookies.GetEncrypted(c.request, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.app.cookies.SetEncrypted(c.response, name, value, maxAge)
}

// Flash loads the flash lazily and saves it right before the response is
// written.
func (c *requestContext) Flash() *cookie.Flash {
	st := c.state
	if st.flash != nil {
		return st.flash
	}

	st.flash = c.app.cookies.LoadFlash(c.request)
	ctx := c.request.Context()
	st.rw.OnBeforeWrite(func() {
		if err := c.app.cookies.SaveFlash(st.rw, st.flash); err != nil {
			c.app.logger.WarnContext(ctx, "failed to save flash", slog.Any("error", err))
		}
	})
	return st.flash
}

func (c *requestContext) SetFlash(key, message string) {
	c.Flash().Set(key, message)
}

// Session loads the session lazily. A request without one gets a fresh
// session that is only stored once a value is set.
func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessions
	if sm == nil {
		return nil, session.ErrNotConfigured
	}

	st := c.state
	if st.session != nil {
		return st.session, nil
	}

	sess, err := sm.Load(c.request.Context(), c.request)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		if sess, err = sm.New(c.request); err != nil {
			return nil, err
		}
		sess.ClearDirty()
	}
	st.session = sess

	ctx := c.request.Context()
	st.rw.OnBeforeWrite(func() {
		// Best-effort: the response is already being written.
		if err := sm.Save(ctx, st.rw, st.session); err != nil {
			c.app.logger.ErrorContext(ctx, "failed to save session", slog.Any("error", err))
		}
	})
	return sess, nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) ResetSession() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}

	sm := c.app.sessions
	if err := sm.Reset(c.request.Context(), c.state.rw, sess); err != nil {
		return err
	}

	fresh, err := sm.New(c.request)
	if err != nil {
		return err
	}
	fresh.ClearDirty()
	c.state.session = fresh

	c.state.csrfToken = nil
	c.state.csrfRotated = true
	if _, err := c.request.Cookie(CSRFCookie); err == nil && c.app.cookies.HasSecret() {
		if _, err := c.rawCSRFToken(true); err != nil {
			return err
		}
	}
	return nil
}

func (c *requestContext) translator() *i18n.Translator {
	if tr, ok := c.Get(TranslatorKey{}).(*i18n.Translator); ok {
		return tr
	}
	if c.app.i18n != nil {
		return c.app.i18n.Translator("")
	}
	return nil
}

func (c *requestContext) T(key string, placeholders ...i18n.M) string {
	tr := c.translator()
	if tr == nil {
		return strings.TrimPrefix(key, ".")
	}
	return tr.Scoped(c.translationScope(), key, placeholders...)
}

// translationScope is "admin.posts.index" for action index of admin/posts.
func (c *requestContext) translationScope() string {
	ctrl := strings.ReplaceAll(c.ControllerPath(), "/", ".")
	switch {
	case ctrl == "":
		return c.ActionName()
	case c.ActionName() == "":
		return ctrl
	}
	return ctrl + "." + c.ActionName()
}

func (c *requestContext) Language() string {
	if lang, ok := c.Get(LanguageKey{}).(string); ok && lang != "" {
		return lang
	}
	if c.app.i18n != nil {
		return c.app.i18n.DefaultLanguage()
	}
	return ""
}
