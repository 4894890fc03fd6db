package middlewares

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/actionkit/internal"
)

// DefaultStackSize caps the stack captured for a panic, in bytes.
const DefaultStackSize = 4096

type recoverOptions struct {
	stackSize int
	noStack   bool
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverOptions)

// WithRecoverStackSize sets how many bytes of stack are captured.
func WithRecoverStackSize(size int) RecoverOption {
	return func(o *recoverOptions) {
		if size > 0 {
			o.stackSize = size
		}
	}
}

// WithRecoverDisablePrintStack leaves the stack out of the log record and
// the PanicError.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(o *recoverOptions) {
		o.noStack = true
	}
}

// Recover turns a panic into a *PanicError for the error handler. Installed
// with WithMiddleware it covers every middleware registered after it; with
// Router.Use it covers the actions of that router only.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	o := recoverOptions{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if e, ok := v.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(v)
				}

				pe := &PanicError{Value: v}
				attrs := []any{
					"panic", v,
					"controller", c.ControllerPath(),
					"action", c.ActionName(),
					"written", c.Written(),
				}
				if !o.noStack {
					buf := make([]byte, o.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)
				err = pe
			}()

			return next(c)
		}
	}
}
