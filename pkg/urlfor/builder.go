package urlfor

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Reserved parameter keys. Everything else fills placeholders or ends up
// in the query string.
const (
	KeyController = "controller"
	KeyAction     = "action"
	KeyAnchor     = "anchor"
	KeyOnlyPath   = "only_path"
	KeyHost       = "host"
	KeyProtocol   = "protocol"
)

// Params are URL generation parameters.
type Params map[string]any

// Record is a persisted object that has a named route of its own.
// RouteName names the route ("post") and RouteKey fills its {id}.
type Record interface {
	RouteName() string
	RouteKey() string
}

// IsNilRecord reports whether rec is nil or holds a nil pointer, map,
// slice, func or chan.
func IsNilRecord(rec Record) bool {
	if rec == nil {
		return true
	}
	v := reflect.ValueOf(rec)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Origin describes the request a Builder generates URLs for.
type Origin interface {
	Protocol() string
	HostWithPort() string
}

// Builder generates URLs for a single request.
type Builder struct {
	table      *Table
	origin     Origin
	recall     map[string]string
	controller string
	action     string
}

// NewBuilder creates a Builder over table for the request described by origin.
// controller and action identify the current action and act as defaults.
func NewBuilder(table *Table, origin Origin, controller, action string) *Builder {
	return &Builder{
		table:      table,
		origin:     origin,
		controller: controller,
		action:     action,
	}
}

// WithRecall returns a copy of b that reuses the current route parameters
// when generating URLs for the current action.
func (b *Builder) WithRecall(r *http.Request) *Builder {
	cp := *b
	cp.recall = make(map[string]string)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			if i < len(rctx.URLParams.Values) {
				cp.recall[k] = rctx.URLParams.Values[i]
			}
		}
	}
	return &cp
}

// URLFor builds a URL from params.
// The route is "controller#action"; both default to the current action.
func (b *Builder) URLFor(params Params) (string, error) {
	params = cloneParams(params)

	controller := stringParam(params, KeyController, b.controller)
	action := stringParam(params, KeyAction, b.action)
	delete(params, KeyController)
	delete(params, KeyAction)

	name := ActionName(controller, action)
	r, ok := b.table.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}

	current := controller == b.controller && action == b.action
	return b.build(r, name, params, current)
}

// URLForRoute builds a URL for a route registered under name.
func (b *Builder) URLForRoute(name string, params Params) (string, error) {
	r, ok := b.table.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return b.build(r, name, cloneParams(params), false)
}

// URLForRecord builds the URL of rec's named route with id set to its key.
func (b *Builder) URLForRecord(rec Record) (string, error) {
	if IsNilRecord(rec) {
		return "", ErrNilRecord
	}
	return b.URLForRoute(rec.RouteName(), Params{"id": rec.RouteKey()})
}

func (b *Builder) build(r *route, name string, params Params, current bool) (string, error) {
	anchor := stringParam(params, KeyAnchor, "")
	onlyPath := boolParam(params, KeyOnlyPath)
	host := stringParam(params, KeyHost, "")
	protocol := stringParam(params, KeyProtocol, "")
	for _, k := range []string{KeyAnchor, KeyOnlyPath, KeyHost, KeyProtocol} {
		delete(params, k)
	}

	var path strings.Builder
	for _, seg := range r.segments {
		if seg.param == "" {
			path.WriteString(seg.literal)
			continue
		}

		v, ok := params[seg.param]
		if ok {
			delete(params, seg.param)
		} else if current {
			if rv, found := b.recall[seg.param]; found {
				v, ok = rv, true
			}
		}
		if !ok {
			if seg.wildcard {
				continue
			}
			return "", fmt.Errorf("%w: %q for route %s", ErrMissingParam, seg.param, name)
		}

		s := formatValue(v)
		if seg.wildcard {
			path.WriteString(s)
		} else {
			path.WriteString(url.PathEscape(s))
		}
	}

	u := path.String()
	if q := encodeQuery(params); q != "" {
		u += "?" + q
	}
	if anchor != "" {
		u += "#" + url.PathEscape(anchor)
	}

	if onlyPath || b.origin == nil {
		return u, nil
	}

	if protocol == "" {
		protocol = b.origin.Protocol()
	} else if !strings.HasSuffix(protocol, "://") {
		protocol = strings.TrimSuffix(protocol, ":") + "://"
	}
	if host == "" {
		host = b.origin.HostWithPort()
	}
	return protocol + host + u, nil
}

func encodeQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	values := make(url.Values, len(params))
	for _, k := range keys {
		switch v := params[k].(type) {
		case []string:
			values[k] = v
		case []any:
			for _, item := range v {
				values.Add(k, formatValue(item))
			}
		default:
			values.Set(k, formatValue(v))
		}
	}
	return values.Encode()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case Record:
		return t.RouteKey()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

func stringParam(params Params, key, def string) string {
	if v, ok := params[key]; ok && v != nil {
		if s := formatValue(v); s != "" {
			return s
		}
	}
	return def
}

func boolParam(params Params, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func cloneParams(p Params) Params {
	cp := make(Params, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
