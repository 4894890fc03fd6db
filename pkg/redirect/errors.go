package redirect

import "errors"

var (
	// ErrNilTarget is returned when a redirect has no destination.
	ErrNilTarget = errors.New("redirect: cannot redirect to nil")

	// ErrUnsupportedTarget is returned for a From value of an unknown type.
	ErrUnsupportedTarget = errors.New("redirect: unsupported redirect target")

	// ErrRedirectBack is returned for a Back target when the request has no
	// Referer header. Callers can catch it and redirect to a fallback.
	ErrRedirectBack = errors.New("redirect: no referrer to redirect back to")

	// ErrNoURLBuilder is returned for Route and Record targets resolved without a URLBuilder.
	ErrNoURLBuilder = errors.New("redirect: no url builder")
)
