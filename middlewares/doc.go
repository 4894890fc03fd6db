// Package middlewares provides the request filters most actionkit
// applications install.
//
// App-level middleware is registered with WithMiddleware and wraps every
// request, including ones no action matched. Middleware given to
// Router.Use or to a single route wraps the action itself and sees the
// error it returns before the app error handler does.
//
// # Request ID and logging
//
// RequestID keeps an upstream X-Request-ID or generates a UUID. Pair it with
// RequestIDExtractor so every log line carries request_id, and with Logger
// for one line per request:
//
//	app := actionkit.New(
//	    actionkit.WithLogger(cfg.Log, "web", middlewares.RequestIDExtractor()),
//	    actionkit.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.Logger(),
//	    ),
//	)
//
// Logger replaces parameters whose names contain a DefaultFilterParameters
// fragment with [FILTERED].
//
// # Recover and Rescue
//
// Recover turns panics into a PanicError. Rescue maps domain errors to HTTP
// errors, the way rescue_from does in a controller:
//
//	func (p *Posts) Routes(r actionkit.Router) {
//	    r.Use(middlewares.Rescue(
//	        middlewares.RescueStatus(repo.ErrNotFound, http.StatusNotFound, ""),
//	    ))
//	    r.Action(http.MethodGet, "/posts/{id}", "show", p.show)
//	}
//
// # Forgery protection
//
// CSRF rejects POST, PUT, PATCH and DELETE requests without a valid
// authenticity token with 422. Forms embed c.CSRFToken() in an
// authenticity_token field; scripts send it as X-CSRF-Token.
//
// # Caching, languages and metrics
//
// CacheAction stores whole GET responses in a pkg/cache backend. I18n picks
// the request language from ?lang=, the lang cookie or Accept-Language.
// Metrics records Prometheus request counters and latency histograms;
// MetricsHandler exposes them.
package middlewares
