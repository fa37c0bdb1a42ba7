package http

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor picks the address a request is rate limited under.
type IPExtractor interface {
	ExtractIP(r *http.Request) string
}

// RemoteAddrExtractor uses the TCP peer address. Forwarding headers are ignored,
// so a client cannot choose its own key.
type RemoteAddrExtractor struct{}

func (RemoteAddrExtractor) ExtractIP(r *http.Request) string {
	return hostOnly(r.RemoteAddr)
}

// TrustedProxyExtractor honours X-Forwarded-For and X-Real-IP only when the
// peer lies inside one of Trusted. Other peers are keyed by RemoteAddr.
//
// X-Forwarded-For is read right to left and the first hop outside Trusted is
// the client; entries to its left were written by the client and are ignored.
type TrustedProxyExtractor struct {
	Trusted []netip.Prefix
}

func (e TrustedProxyExtractor) ExtractIP(r *http.Request) string {
	peer := hostOnly(r.RemoteAddr)
	if !e.isTrusted(peer) {
		if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
			slog.Debug("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !e.isTrusted(addr.String()) {
				return addr.String()
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.String()
		}
	}
	return peer
}

func (e TrustedProxyExtractor) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range e.Trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// NewIPExtractor returns a TrustedProxyExtractor when proxies are configured and
// a RemoteAddrExtractor otherwise.
func NewIPExtractor(trusted []netip.Prefix) IPExtractor {
	if len(trusted) == 0 {
		return RemoteAddrExtractor{}
	}
	return TrustedProxyExtractor{Trusted: trusted}
}

// hostOnly strips the port from a "host:port" address.
func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
