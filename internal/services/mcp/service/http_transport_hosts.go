package service

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
)

var (
	errNoRequest        = errors.New("missing request")
	errHostNotAllowed   = errors.New("host not allowed")
	errOriginNotAllowed = errors.New("origin not allowed")
	errOriginUnreadable = errors.New("invalid origin")
)

// validateLocalRequest guards against DNS rebinding: both the Host header and
// any Origin header must name an allowed host before a request is served.
func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return errNoRequest
	}
	if !t.isAllowedHostHeader(r.Host) {
		return errHostNotAllowed
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return errOriginUnreadable
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return errOriginNotAllowed
	}
	return nil
}

// isAllowedHostHeader reports whether a Host or Origin header value names an
// allowed host. Loopback always passes; anything else must be configured
// through the environment.
func (t *HTTPTransport) isAllowedHostHeader(header string) bool {
	hostname, ok := normalizeHost(header)
	if !ok {
		return false
	}
	return isLoopbackHost(hostname) || t.configuredHost(hostname)
}

func (t *HTTPTransport) configuredHost(hostname string) bool {
	if len(t.allowedHosts) == 0 {
		return false
	}
	_, ok := t.allowedHosts[strings.ToLower(hostname)]
	return ok
}

// isLoopbackHost reports whether hostname is an explicit local loopback name.
func isLoopbackHost(hostname string) bool {
	switch strings.ToLower(strings.TrimSpace(hostname)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// parseAllowedHosts normalizes configured host names into a lookup set.
func parseAllowedHosts(values []string) map[string]struct{} {
	hosts := make(map[string]struct{}, len(values))
	for _, raw := range values {
		host := strings.ToLower(strings.TrimSpace(raw))
		if host == "" {
			continue
		}
		hosts[host] = struct{}{}
	}
	return hosts
}

// normalizeHost strips any port from a Host/Origin header value, leaving the
// hostname. Bracketed and bare IPv6 forms are both accepted.
func normalizeHost(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	if strings.HasPrefix(header, "[") {
		if hostname, _, err := net.SplitHostPort(header); err == nil {
			return hostname, true
		}
		if strings.HasSuffix(header, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(header, "["), "]"), true
		}
		return "", false
	}

	// More than one colon without brackets can only be a bare IPv6 address.
	if strings.Count(header, ":") > 1 {
		return header, true
	}

	if strings.Contains(header, ":") {
		hostname, _, err := net.SplitHostPort(header)
		if err != nil {
			return "", false
		}
		return hostname, true
	}

	return header, true
}
