// Package metadata reads caller details from an incoming request for logging.
package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP returns the best guess at the caller's address. The first
// X-Forwarded-For hop wins, then X-Real-IP, then the socket peer. Header values
// that do not parse as an IP are ignored.
func ClientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); first != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}
