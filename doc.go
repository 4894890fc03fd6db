// Package actionkit is the request-decision layer of a web application:
// controllers with named actions, a render pipeline with implicit templates
// and layouts, redirects with symbolic statuses, and the cookie, session,
// flash and CSRF plumbing around them.
//
// # Controllers
//
// A controller declares its routes. Actions registered with Router.Action
// get a name ("posts#show") for URL generation and render their template,
// views/posts/show.html, when the handler writes nothing:
//
//	type Posts struct{ repo *store.Posts }
//
//	func (p *Posts) Routes(r actionkit.Router) {
//	    r.Route("/posts", func(r actionkit.Router) {
//	        r.Action(http.MethodGet, "/", "index", p.index)
//	        r.View("/new", "new")
//	        r.Action(http.MethodPost, "/", "create", p.create)
//	        r.Action(http.MethodGet, "/{id}", "show", nil)
//	    })
//	}
//
//	func (p *Posts) create(c actionkit.Context) error {
//	    post, err := p.repo.Create(c, c.Form("title"))
//	    if err != nil {
//	        return c.RenderView(render.Name("new"), render.Options{Status: "unprocessable_entity"})
//	    }
//	    c.SetFlash("notice", "Post created")
//	    return c.RedirectTo(redirect.Record(post), redirect.WithStatus("see_other"))
//	}
//
// The controller path comes from ControllerPath() or the type name in snake
// case without a Controller suffix. Layout() picks the layout for every
// action; otherwise views/layouts/application.html is used when present.
//
// # Rendering
//
// RenderView takes a target and options the way render does in Rails:
// render.None() for the current action, render.Name("edit") for another
// action or "posts/edit" for another controller, render.With(opts) for
// options only. Exactly one primary option wins (Update, Nothing, Text,
// JSON, XML, Inline, File, Template, Action, Partial) and statuses may be
// numbers or symbols such as "created". htmx requests get no layout.
//
// # Running
//
// Run serves the app and shuts down on SIGINT or SIGTERM:
//
//	app := actionkit.New(
//	    actionkit.WithLogger(cfg.Log, "web", middlewares.RequestIDExtractor()),
//	    actionkit.WithCookieOptions(cookie.WithSecret(cfg.Secret)),
//	    actionkit.WithSession(session.NewRedisStore(client, cfg.Session)),
//	    actionkit.WithControllers(&Posts{repo: repo}),
//	)
//	if err := app.Run(":8080", actionkit.ShutdownHook(redis.Shutdown(client))); err != nil {
//	    log.Fatal(err)
//	}
//
// For raw chi access, App.Router returns the underlying router.
package actionkit
