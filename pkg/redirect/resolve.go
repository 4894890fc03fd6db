package redirect

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/dmitrymomot/actionkit/pkg/status"
	"github.com/dmitrymomot/actionkit/pkg/urlfor"
)

// DefaultStatus is used when neither the target nor an option sets one.
const DefaultStatus = http.StatusFound

const statusKey = "status"

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// URLBuilder generates URLs for Route and Record targets.
// *urlfor.Builder implements it.
type URLBuilder interface {
	URLFor(params urlfor.Params) (string, error)
	URLForRecord(rec urlfor.Record) (string, error)
}

// Result is a resolved redirect.
type Result struct {
	URL    string
	Status int
}

// Option configures Resolve.
type Option func(*options)

type options struct {
	status any
}

// WithStatus sets the redirect status. It accepts anything status.Interpret
// does: 301, "301", "moved_permanently". A status carried by a Route target
// takes precedence.
func WithStatus(v any) Option {
	return func(o *options) {
		o.status = v
	}
}

// HasScheme reports whether s starts with a URI scheme such as "https:" or "mailto:".
func HasScheme(s string) bool {
	return schemePattern.MatchString(s)
}

// Resolve turns target into a destination URL and status code.
// urls may be nil when target is not a Route or Record.
func Resolve(req Request, urls URLBuilder, target Target, opts ...Option) (Result, error) {
	if target.IsNil() {
		return Result{}, ErrNilTarget
	}
	if target.kind == targetUnsupported {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target.url)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	code := DefaultStatus
	params := target.params
	if raw, ok := params[statusKey]; ok && target.kind == targetRoute {
		code = status.Interpret(raw)
		params = withoutKey(params, statusKey)
	} else if o.status != nil {
		code = status.Interpret(o.status)
	}

	var (
		url string
		err error
	)
	switch target.kind {
	case targetString:
		if HasScheme(target.url) {
			url = target.url
		} else {
			url = req.Protocol() + req.HostWithPort() + target.url
		}
	case targetBack:
		url = req.Referrer()
		if url == "" {
			return Result{}, ErrRedirectBack
		}
	case targetRoute:
		if urls == nil {
			return Result{}, ErrNoURLBuilder
		}
		url, err = urls.URLFor(params)
	case targetRecord:
		if urls == nil {
			return Result{}, ErrNoURLBuilder
		}
		url, err = urls.URLForRecord(target.record)
	}
	if err != nil {
		return Result{}, fmt.Errorf("redirect: build url for %s: %w", target, err)
	}

	return Result{URL: url, Status: code}, nil
}

func withoutKey(p urlfor.Params, key string) urlfor.Params {
	cp := make(urlfor.Params, len(p))
	for k, v := range p {
		if k != key {
			cp[k] = v
		}
	}
	return cp
}
