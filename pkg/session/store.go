package session

import (
	"context"
	"time"
)

// Store persists sessions. Sessions are looked up by token; Update finds
// the session by ID, so it also stores a rotated token.
type Store interface {
	Create(ctx context.Context, s *Session) error

	// Get returns ErrNotFound for unknown tokens and ErrExpired for
	// sessions past their expiry.
	Get(ctx context.Context, token string) (*Session, error)

	Update(ctx context.Context, s *Session) error

	// Delete removes the session holding token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// Touch records activity without rewriting values.
	Touch(ctx context.Context, token string, lastActiveAt time.Time) error
}
