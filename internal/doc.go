// Package internal provides the core types and implementation for actionkit.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/actionkit" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the router, the view engine and per-app services; serves with graceful shutdown
//   - Controller: declares routes and actions on a Router
//   - Context: the controller instance of one request
//   - HandlerFunc, Middleware, ErrorHandler: the handler chain
//
// # Actions and implicit render
//
// Routes registered with Router.Action are named "controller#action" and
// render the action's template when the handler writes nothing:
//
//	func (p *PostsController) Routes(r actionkit.Router) {
//	    r.Action(http.MethodGet, "/posts", "index", p.index)
//	    r.Action(http.MethodPost, "/posts", "create", p.create)
//	    r.View("/posts/new", "new")
//	}
//
//	func (p *PostsController) index(c actionkit.Context) error {
//	    c.Set(postsKey{}, p.repo.All(c))
//	    return nil // renders views/posts/index.html
//	}
//
// # Request state
//
// App installs the request state before any other middleware runs, so the
// middleware chain and the action share one response writer, session,
// flash and CSRF token. The session and flash are saved by hooks that run
// right before the first byte of the response is written.
//
// # Context as context.Context
//
// Context implements context.Context by delegating to the request context,
// so it can be passed to database calls and HTTP clients directly.
package internal
