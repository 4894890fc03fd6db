package redirect

import (
	"fmt"

	"github.com/dmitrymomot/actionkit/pkg/urlfor"
)

type targetKind uint8

const (
	targetNil targetKind = iota
	targetString
	targetBack
	targetRoute
	targetRecord
	targetUnsupported
)

// Target is where a redirect sends the client.
// The zero value is the nil target and fails to resolve.
type Target struct {
	record urlfor.Record
	params urlfor.Params
	url    string
	kind   targetKind
}

// To redirects to an absolute URL or to a path on the current host.
func To(url string) Target {
	return Target{kind: targetString, url: url}
}

// Back redirects to the referring page.
func Back() Target {
	return Target{kind: targetBack}
}

// Route redirects to a URL generated from params.
// A "status" key sets the redirect status and is not passed on.
func Route(params urlfor.Params) Target {
	return Target{kind: targetRoute, params: params}
}

// Record redirects to the URL of a persisted record.
// A nil record, typed or not, gives the nil target.
func Record(rec urlfor.Record) Target {
	if urlfor.IsNilRecord(rec) {
		return Target{}
	}
	return Target{kind: targetRecord, record: rec}
}

// From builds a Target from a dynamically typed value.
// Strings are always URLs; use Back for the referrer. Values of any other
// type fail to resolve with ErrUnsupportedTarget.
func From(v any) Target {
	switch t := v.(type) {
	case nil:
		return Target{}
	case Target:
		return t
	case string:
		return To(t)
	case urlfor.Params:
		return Route(t)
	case map[string]any:
		return Route(urlfor.Params(t))
	case urlfor.Record:
		return Record(t)
	}
	return Target{kind: targetUnsupported, url: fmt.Sprintf("%T", v)}
}

// IsNil reports whether t is the nil target.
func (t Target) IsNil() bool {
	return t.kind == targetNil
}

func (t Target) String() string {
	switch t.kind {
	case targetString:
		return t.url
	case targetBack:
		return "back"
	case targetRoute:
		return fmt.Sprintf("route(%v)", map[string]any(t.params))
	case targetRecord:
		return fmt.Sprintf("record(%s/%s)", t.record.RouteName(), t.record.RouteKey())
	case targetUnsupported:
		return "unsupported(" + t.url + ")"
	}
	return "nil"
}
