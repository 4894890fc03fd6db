package internal

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// CSRFCookie holds the raw authenticity token, signed.
const CSRFCookie = "_csrf_token"

const csrfTokenLength = 32

// CSRFToken returns the authenticity token XOR-masked with a fresh one-time
// pad, so that the value differs on every call while the secret stays the
// same. The raw token is created and stored in a signed cookie on first use.
func (c *requestContext) CSRFToken() (string, error) {
	raw, err := c.rawCSRFToken(true)
	if err != nil {
		return "", err
	}

	masked := make([]byte, 2*csrfTokenLength)
	pad := masked[:csrfTokenLength]
	if _, err := rand.Read(pad); err != nil {
		return "", fmt.Errorf("csrf: %w", err)
	}
	xorBytes(masked[csrfTokenLength:], pad, raw)
	return base64.RawURLEncoding.EncodeToString(masked), nil
}

// ValidCSRFToken accepts a masked token produced by CSRFToken.
func (c *requestContext) ValidCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	raw, err := c.rawCSRFToken(false)
	if err != nil || raw == nil {
		return false
	}

	masked, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(masked) != 2*csrfTokenLength {
		return false
	}
	unmasked := make([]byte, csrfTokenLength)
	xorBytes(unmasked, masked[:csrfTokenLength], masked[csrfTokenLength:])
	return subtle.ConstantTimeCompare(unmasked, raw) == 1
}

// rawCSRFToken returns the request's token, creating it when create is set.
func (c *requestContext) rawCSRFToken(create bool) ([]byte, error) {
	st := c.state
	if st.csrfToken != nil {
		return st.csrfToken, nil
	}
	if raw := c.storedCSRFToken(); raw != nil {
		st.csrfToken = raw
		return raw, nil
	}
	if !create {
		return nil, nil
	}

	raw := make([]byte, csrfTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("csrf: %w", err)
	}
	if err := c.app.cookies.SetSigned(st.rw, CSRFCookie, base64.RawURLEncoding.EncodeToString(raw), 0); err != nil {
		return nil, fmt.Errorf("csrf: %w", err)
	}
	st.csrfToken = raw
	return raw, nil
}

// storedCSRFToken decodes the signed cookie. The cookie sent with the
// request no longer counts once ResetSession rotated the token.
func (c *requestContext) storedCSRFToken() []byte {
	if c.state.csrfRotated {
		return nil
	}
	v, err := c.app.cookies.GetSigned(c.request, CSRFCookie)
	if err != nil {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil || len(raw) != csrfTokenLength {
		return nil
	}
	return raw
}

func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
