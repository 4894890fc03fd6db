package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/actionkit/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName = "__sid"
	defaultSessionMaxAge     = 86400 * 30 // 30 days
	sessionTokenBytes        = 32
)

// SessionManager handles session lifecycle and cookie management.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session max age in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.path = path
		}
	}
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = secure
	}
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// Load returns the session named by the request cookie.
// Returns nil, nil when there is no cookie, or when the cookie points at a
// session that is gone or expired; the stale cookie is then ignored.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sm.cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, c.Value)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		sm.logger.DebugContext(ctx, "stale session cookie", slog.Any("error", err))
		return nil, nil
	case err != nil:
		return nil, err
	}

	if time.Since(sess.LastActiveAt) > time.Minute {
		now := time.Now()
		if err := sm.store.Touch(ctx, sess.Token, now); err != nil {
			sm.logger.WarnContext(ctx, "failed to touch session", slog.Any("error", err))
		} else {
			sess.LastActiveAt = now
		}
	}
	return sess, nil
}

// New builds an unsaved session for the request. Save stores it.
func (sm *SessionManager) New(r *http.Request) (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := session.New(uuid.NewString(), token, time.Now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.UserAgent = r.UserAgent()
	return sess, nil
}

// Save persists a new or dirty session. New sessions also get their cookie.
func (sm *SessionManager) Save(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if sess == nil || !sess.IsDirty() {
		return nil
	}

	if sess.IsNew() {
		if err := sm.store.Create(ctx, sess); err != nil {
			return err
		}
		sess.ClearNew()
		sm.setCookie(w, sess.Token, sm.maxAge)
	} else if err := sm.store.Update(ctx, sess); err != nil {
		return err
	}

	sess.ClearDirty()
	return nil
}

// Reset deletes the session from the store and clears its cookie.
func (sm *SessionManager) Reset(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if sess != nil && !sess.IsNew() {
		if err := sm.store.Delete(ctx, sess.Token); err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
	}
	sm.setCookie(w, "", -1)
	return nil
}

// RotateToken gives the session a new token so that a token captured before
// a privilege change stops working. The cookie is rewritten.
func (sm *SessionManager) RotateToken(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	oldToken := sess.Token
	newToken, err := generateToken()
	if err != nil {
		return err
	}
	sess.Token = newToken
	sess.MarkDirty()

	if !sess.IsNew() {
		if err := sm.store.Update(ctx, sess); err != nil {
			sess.Token = oldToken
			return err
		}
		sess.ClearDirty()
	}
	sm.setCookie(w, sess.Token, sm.maxAge)
	return nil
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

func (sm *SessionManager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   maxAge,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	})
}

// generateToken creates a cryptographically secure random token.
func generateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
