package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Session is a server-side bag of values identified by a cookie token.
type Session struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	Values       map[string]any `json:"values"`
	ID           string         `json:"id"`
	// Token is what the cookie carries. It differs from ID so that it can be
	// rotated without losing the session.
	Token     string `json:"token"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	dirty bool
	isNew bool
}

// New creates a session that has not been stored yet.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// SetValue stores a value and marks the session for saving.
// Values must survive a JSON round trip.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value. The session is marked for saving only if the
// key existed.
func (s *Session) DeleteValue(key string) {
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Clear removes every value.
func (s *Session) Clear() {
	if len(s.Values) > 0 {
		s.Values = make(map[string]any)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the time left until expiry, never negative.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// Clone returns a copy with its own Values map.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Values = maps.Clone(s.Values)
	return &cp
}

// Value returns the value under key as T. Numbers decoded from a store
// (json.Number or float64) convert to the requested numeric type.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	if typed, ok := val.(T); ok {
		return typed, nil
	}
	if typed, ok := convertNumber[T](val); ok {
		return typed, nil
	}
	return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, key, val)
}

// ValueOr is Value with a fallback for missing or mistyped keys.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}

func convertNumber[T any](val any) (T, bool) {
	var zero T
	var f float64
	switch n := val.(type) {
	case json.Number:
		v, err := n.Float64()
		if err != nil {
			return zero, false
		}
		f = v
	case float64:
		f = n
	default:
		return zero, false
	}

	var out any
	switch any(zero).(type) {
	case int:
		out = int(f)
	case int64:
		out = int64(f)
	case float64:
		out = f
	default:
		return zero, false
	}
	return out.(T), true
}
