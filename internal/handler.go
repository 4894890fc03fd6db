package internal

import (
	"reflect"
	"strings"
	"unicode"
)

// Controller declares routes on a router.
//
// Example:
//
//	type PostsController struct {
//	    repo *repository.Queries
//	}
//
//	func (h *PostsController) Routes(r actionkit.Router) {
//	    r.Action(http.MethodGet, "/posts", "index", h.index)
//	    r.View("/posts/new", "new")
//	    r.Action(http.MethodPost, "/posts", "create", h.create)
//	}
type Controller interface {
	Routes(r Router)
}

// ControllerPather overrides the controller path derived from the type name.
// The path prefixes template lookups ("admin/posts/index") and route names.
type ControllerPather interface {
	ControllerPath() string
}

// Layouter names the layout that wraps the controller's views.
type Layouter interface {
	Layout() string
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handling middleware.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func Auth(next actionkit.HandlerFunc) actionkit.HandlerFunc {
//	    return func(c actionkit.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.RedirectTo(redirect.To("/login"))
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

// controllerInfo is what the router knows about the controller that owns a route.
type controllerInfo struct {
	path   string
	layout string
}

func describeController(ctrl Controller) *controllerInfo {
	info := &controllerInfo{path: controllerPath(ctrl)}
	if l, ok := ctrl.(Layouter); ok {
		info.layout = l.Layout()
	}
	return info
}

// controllerPath returns ControllerPath() when implemented, otherwise the
// type name without a Controller or Handler suffix in snake case:
// AdminPostsController becomes "admin_posts".
func controllerPath(ctrl Controller) string {
	if p, ok := ctrl.(ControllerPather); ok {
		return strings.Trim(p.ControllerPath(), "/")
	}

	t := reflect.TypeOf(ctrl)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	for _, suffix := range []string{"Controller", "Handler"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			name = trimmed
			break
		}
	}
	return snakeCase(name)
}

func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		// Word boundary: aB, or the last capital of an acronym (HTMLPage).
		if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
			(unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
