package middlewares

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/actionkit/internal"
)

// FilteredValue replaces the value of a filtered parameter in logs.
const FilteredValue = "[FILTERED]"

// DefaultFilterParameters are parameter name fragments hidden from logs.
// Matching is case-insensitive and partial, so "password" also hides
// "password_confirmation".
var DefaultFilterParameters = []string{"passw", "secret", "token", "_key", "crypt", "salt", "certificate", "otp", "ssn", "cvv", "cvc"}

// LoggerConfig configures the request logger.
type LoggerConfig struct {
	Filter   []string
	SkipPath []string
}

// LoggerOption configures LoggerConfig.
type LoggerOption func(*LoggerConfig)

// WithFilterParameters replaces the filtered parameter list.
func WithFilterParameters(names ...string) LoggerOption {
	return func(cfg *LoggerConfig) {
		cfg.Filter = names
	}
}

// WithLoggerSkipPaths disables logging for exact request paths, such as
// health checks.
func WithLoggerSkipPaths(paths ...string) LoggerOption {
	return func(cfg *LoggerConfig) {
		cfg.SkipPath = paths
	}
}

// Logger returns middleware that logs one line per request once it is
// done: method, path, status, size, duration, the controller and action
// that handled it, and the request parameters with sensitive values
// replaced by [FILTERED]. Server errors log at error level, client errors
// at warn.
func Logger(opts ...LoggerOption) internal.Middleware {
	cfg := &LoggerConfig{Filter: DefaultFilterParameters}
	for _, opt := range opts {
		opt(cfg)
	}
	filter := make([]string, len(cfg.Filter))
	for i, f := range cfg.Filter {
		filter[i] = strings.ToLower(f)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if slices.Contains(cfg.SkipPath, r.URL.Path) {
				return next(c)
			}

			// Parsed here so the values are visible after the action ran.
			_ = r.ParseForm()

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			rw := c.ResponseWriter()
			status := rw.Status()
			if err != nil && !rw.Written() {
				status = http.StatusInternalServerError
				if he := internal.AsHTTPError(err); he != nil {
					status = he.Code
				}
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("size", rw.Size()),
				slog.Duration("duration", elapsed),
			}
			if ctrl := c.ControllerPath(); ctrl != "" {
				attrs = append(attrs, slog.String("controller", ctrl))
			}
			if action := c.ActionName(); action != "" {
				attrs = append(attrs, slog.String("action", action))
			}
			if params := filterParams(r.Form, filter); len(params) > 0 {
				attrs = append(attrs, slog.Any("params", params))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			switch {
			case status >= http.StatusInternalServerError:
				c.LogError("request completed", attrs...)
			case status >= http.StatusBadRequest:
				c.LogWarn("request completed", attrs...)
			default:
				c.LogInfo("request completed", attrs...)
			}
			return err
		}
	}
}

// filterParams flattens single values and hides filtered keys.
func filterParams(values map[string][]string, filter []string) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch {
		case isFiltered(k, filter):
			out[k] = FilteredValue
		case len(v) == 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}

func isFiltered(key string, filter []string) bool {
	key = strings.ToLower(key)
	for _, f := range filter {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}
