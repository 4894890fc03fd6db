package redirect

import (
	"net/http"
	"strings"
)

// Request is the read-only view of the current request the resolver needs.
type Request interface {
	// Protocol returns "http://" or "https://".
	Protocol() string
	HostWithPort() string
	// Referrer returns the Referer header, or "" when there is none.
	Referrer() string
}

// HTTPRequest adapts *http.Request to Request.
type HTTPRequest struct {
	r *http.Request
}

// FromHTTP wraps r. Forwarded protocol and host headers set by a proxy win
// over the connection's own values.
func FromHTTP(r *http.Request) HTTPRequest {
	return HTTPRequest{r: r}
}

func (h HTTPRequest) Protocol() string {
	if h.r.TLS != nil {
		return "https://"
	}
	proto := h.r.Header.Get("X-Forwarded-Proto")
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	if strings.EqualFold(strings.TrimSpace(proto), "https") {
		return "https://"
	}
	return "http://"
}

func (h HTTPRequest) HostWithPort() string {
	host := h.r.Header.Get("X-Forwarded-Host")
	if i := strings.IndexByte(host, ','); i >= 0 {
		host = host[:i]
	}
	if host = strings.TrimSpace(host); host != "" {
		return host
	}
	return h.r.Host
}

func (h HTTPRequest) Referrer() string {
	return h.r.Referer()
}
