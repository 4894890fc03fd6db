package internal

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/actionkit/pkg/redirect"
	"github.com/dmitrymomot/actionkit/pkg/view"
)

// Sentinel errors returned by Context methods.
var (
	// ErrDoubleRender is returned when a handler renders or redirects after
	// the response has already been written.
	ErrDoubleRender = errors.New("render and/or redirect called after the response was written")

	// ErrStorageNotConfigured is returned by SendStored when WithStorage was not used.
	ErrStorageNotConfigured = errors.New("storage: not configured")

	// ErrCacheNotConfigured is returned by Fragment when the app has no fragment cache.
	ErrCacheNotConfigured = errors.New("cache: not configured")

	// ErrNoAction is returned when the default render is requested outside an action.
	ErrNoAction = errors.New("render: no current action")

	// ErrInvalidPartial is returned for a partial that is neither a component,
	// a name nor a record with a partial path.
	ErrInvalidPartial = errors.New("render: invalid partial")
)

// HTTPError represents an HTTP error with all data needed for rendering.
// It implements the error interface and provides structured data for
// error handlers to render error pages or toasts.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title for the error (defaults derived from Code).
	Title string

	// Detail is an optional extended description.
	Detail string

	// ErrorCode is an application-specific error code (for i18n, client handling).
	ErrorCode string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// StatusText returns Title, or the standard text for Code.
func (e *HTTPError) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
// An empty message defaults to the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrNotAcceptable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotAcceptable, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// DefaultErrorHandler answers with the HTTPError's status and message, or
// 500 for anything else. Server errors are logged at error level, client
// errors at warn. JSON clients get {"error": ..., "status": ...}.
func DefaultErrorHandler(c Context, err error) error {
	he := AsHTTPError(err)
	if he == nil {
		he = ErrInternal("", WithError(err))
	}

	attrs := []any{"error", err, "status", he.Code}
	switch {
	case he.Code >= http.StatusInternalServerError:
		c.LogError(errorLogMessage(err), attrs...)
	default:
		c.LogWarn("request failed", attrs...)
	}

	if c.Format() == FormatJSON {
		return c.JSON(he.Code, map[string]any{"error": he.Message, "status": he.Code})
	}
	return c.String(he.Code, he.Message)
}

func errorLogMessage(err error) string {
	switch {
	case errors.Is(err, view.ErrTemplateNotFound):
		return "missing template"
	case errors.Is(err, redirect.ErrRedirectBack), errors.Is(err, redirect.ErrNilTarget),
		errors.Is(err, redirect.ErrUnsupportedTarget):
		return "redirect failed"
	case errors.Is(err, ErrDoubleRender):
		return "double render"
	}
	return "request failed"
}
