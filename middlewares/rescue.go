package middlewares

import (
	"errors"

	"github.com/dmitrymomot/actionkit/internal"
)

// RescueFunc converts a matched error into the error returned to the app
// error handler. Returning nil swallows the error.
type RescueFunc func(c internal.Context, err error) error

type rescuer struct {
	target error
	fn     RescueFunc
}

// RescueConfig configures the Rescue middleware.
type RescueConfig struct {
	rescuers []rescuer
}

// RescueOption configures RescueConfig.
type RescueOption func(*RescueConfig)

// RescueFrom maps errors matching target (errors.Is) to fn.
func RescueFrom(target error, fn RescueFunc) RescueOption {
	return func(cfg *RescueConfig) {
		cfg.rescuers = append(cfg.rescuers, rescuer{target: target, fn: fn})
	}
}

// RescueStatus maps errors matching target to an HTTPError with code.
// An empty message uses the status text.
func RescueStatus(target error, code int, message string) RescueOption {
	return RescueFrom(target, func(_ internal.Context, err error) error {
		return internal.NewHTTPError(code, message, internal.WithError(err))
	})
}

// Rescue returns middleware that translates domain errors returned by
// actions before they reach the app error handler. Rules are matched in
// registration order; errors that are already HTTP errors pass through
// unless a rule matches them first.
//
//	middlewares.Rescue(
//	    middlewares.RescueStatus(repo.ErrNotFound, http.StatusNotFound, ""),
//	    middlewares.RescueStatus(repo.ErrConflict, http.StatusConflict, "Already exists"),
//	)
func Rescue(opts ...RescueOption) internal.Middleware {
	cfg := &RescueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			for _, r := range cfg.rescuers {
				if errors.Is(err, r.target) {
					return r.fn(c, err)
				}
			}
			return err
		}
	}
}
