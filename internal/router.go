package internal

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/actionkit/pkg/render"
	"github.com/dmitrymomot/actionkit/pkg/urlfor"
)

// Router is the interface controllers use to declare routes.
// It provides HTTP method routing, named actions and grouping.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware)

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware)

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// HEAD registers a handler for HEAD requests.
	HEAD(path string, h HandlerFunc, mw ...Middleware)

	// OPTIONS registers a handler for OPTIONS requests.
	OPTIONS(path string, h HandlerFunc, mw ...Middleware)

	// Action registers a named action. The route is named
	// "controller#action" for URL generation. When h returns nil without
	// writing a response, the action's template is rendered.
	Action(method, path, action string, h HandlerFunc, mw ...Middleware)

	// View registers a GET action that has no handler and only renders
	// its template.
	View(path, action string, mw ...Middleware)

	// Name registers a named pattern for URL generation without a handler.
	// The pattern is relative to the current Route prefix.
	Name(name, path string)

	// Group creates an inline route group.
	// All routes defined inside fn share no common pattern prefix.
	Group(fn func(r Router))

	// Route creates a route group with a pattern prefix.
	// All routes defined inside fn share the pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware for the routes registered after it on this
	// router and its groups. Unlike app middleware it wraps the action
	// directly and sees the errors the action returns.
	Use(mw ...Middleware)

	// Mount attaches an http.Handler at the given pattern.
	// Use this for legacy handlers or third-party routers.
	Mount(pattern string, h http.Handler)
}

// routerAdapter wraps chi.Router to implement the Router interface.
// prefix mirrors the chi Route nesting so that named routes get full patterns.
type routerAdapter struct {
	router chi.Router
	app    *App
	ctrl   *controllerInfo
	prefix string
	mws    []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Patch(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Head(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Options(path, r.wrap("", h, mw...))
}

func (r *routerAdapter) Action(method, path, action string, h HandlerFunc, mw ...Middleware) {
	r.app.routes.Add(urlfor.ActionName(r.ctrl.path, action), joinPattern(r.prefix, path))
	r.router.Method(strings.ToUpper(method), path, r.wrap(action, implicitRender(h), mw...))
}

func (r *routerAdapter) View(path, action string, mw ...Middleware) {
	r.Action(http.MethodGet, path, action, nil, mw...)
}

func (r *routerAdapter) Name(name, path string) {
	r.app.routes.Add(name, joinPattern(r.prefix, path))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app, ctrl: r.ctrl, prefix: r.prefix, mws: slices.Clone(r.mws)})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app, ctrl: r.ctrl, prefix: joinPattern(r.prefix, pattern), mws: slices.Clone(r.mws)})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	r.mws = append(r.mws, mw...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) wrap(action string, h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	// Apply middleware in reverse order (first registered = outermost).
	mw = slices.Concat(r.mws, mw)
	slices.Reverse(mw)
	for _, m := range mw {
		h = m(h)
	}
	return r.adaptHandler(action, h)
}

func (r *routerAdapter) adaptHandler(action string, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c := newContext(w, req, r.app)
		c.state.controller = r.ctrl
		c.state.action = action
		if err := h(c); err != nil {
			r.app.handleError(c, err)
		}
	}
}

// implicitRender renders the action's template when h leaves the response empty.
func implicitRender(h HandlerFunc) HandlerFunc {
	return func(c Context) error {
		if h != nil {
			if err := h(c); err != nil {
				return err
			}
		}
		if c.Written() {
			return nil
		}
		return c.RenderView(render.None(), render.Options{})
	}
}

// joinPattern joins a Route prefix and a route path the way chi matches them:
// "/" under "/posts" is "/posts".
func joinPattern(prefix, path string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return path
	}
	if path == "" || path == "/" {
		return prefix
	}
	return prefix + "/" + strings.TrimPrefix(path, "/")
}

// adaptMiddleware converts a Middleware to chi middleware.
// The middleware sees the same request state as the handler it wraps.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextFunc := func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			}
			c := newContext(w, r, a)
			if err := mw(nextFunc)(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}
