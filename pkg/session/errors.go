package session

import "errors"

var (
	// ErrNotConfigured is returned when session functionality is used
	// but no store was configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	ErrNotFound     = errors.New("session: not found")
	ErrExpired      = errors.New("session: expired")
	ErrTypeMismatch = errors.New("session: type mismatch")
)
