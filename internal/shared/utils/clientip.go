package utils

import (
	"net"
	"net/http"
	"strings"
)

// SentinelIP is returned when no header or connection value parses as an
// IP address. Rate-limit keys built from it still work; they just lump
// unidentifiable clients together.
const SentinelIP = "0.0.0.0"

// ClientIP resolves the client IP from proxy headers in priority order:
// the CDN header, the first X-Forwarded-For entry, X-Real-IP, then the
// direct connection address. Each candidate must parse as an IP.
func ClientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := parseIP(host); ip != "" {
		return ip
	}

	return SentinelIP
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
