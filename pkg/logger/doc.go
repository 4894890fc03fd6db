// Package logger builds slog loggers with context extraction and optional
// Sentry reporting.
//
// Configuration comes from environment variables through pkg/config:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.New(cfg, requestIDExtractor)
//
// A ContextExtractor pulls a request-scoped attribute out of the context on
// every log call:
//
//	func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(requestIDKey{}).(string); ok {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
// # Sentry
//
// With SENTRY_DSN set, records go to stdout and to Sentry. Errors create
// issues; warnings are stored as logs unless SENTRY_MIN_LEVEL is "error".
// A missing DSN or a failed init leaves stdout logging in place.
//
// Decorate can wrap any slog.Handler with extractors, and NewNope returns a
// logger that discards everything.
package logger
