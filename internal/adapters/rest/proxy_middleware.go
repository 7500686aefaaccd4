package rest

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	core_port "search-service/internal/core/port"

	"github.com/go-chi/chi/v5/middleware"
)

// ParseTrustedProxies turns CIDRs or bare addresses into prefixes. Entries
// that do not parse are logged and skipped.
func ParseTrustedProxies(entries []string, logger core_port.LoggerPort) []netip.Prefix {
	var out []netip.Prefix
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(raw); err == nil {
			addr = addr.Unmap()
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		logger.Warn("Ignoring invalid trusted proxy entry", core_port.Fields{"entry": raw})
	}
	return out
}

// TrustedRealIP applies chi's RealIP only when the direct peer is one of
// the trusted proxies. Anyone else keeps their socket address, so forged
// X-Forwarded-For headers cannot move a client into another rate-limit bucket.
func TrustedRealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}
		realIP := middleware.RealIP(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if peerTrusted(r.RemoteAddr, trusted) {
				realIP.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func peerTrusted(remoteAddr string, trusted []netip.Prefix) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
