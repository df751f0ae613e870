// Package metadata resolves who is calling: the client IP (honouring
// X-Forwarded-For only from trusted proxies) and a short "Browser on OS"
// description parsed from the User-Agent.
package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"cyphex/pkg/requestcontext"

	"github.com/mssola/useragent"
)

// MaxXFFHeaderLength caps X-Forwarded-For / X-Real-IP values we are willing to parse.
const MaxXFFHeaderLength = 500

type Config struct {
	// TrustedProxies lists CIDR prefixes allowed to set X-Forwarded-For.
	// Empty means forwarding headers are ignored.
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies converts CIDR strings to prefixes, skipping invalid entries.
func ParseTrustedProxies(cidrs []string) []netip.Prefix {
	var out []netip.Prefix
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if p, err := netip.ParsePrefix(c); err == nil {
			out = append(out, p)
		}
	}
	return out
}

type Middleware struct {
	config Config
}

func NewMiddleware(cfg Config) *Middleware {
	return &Middleware{config: cfg}
}

// Handler stores client IP, raw User-Agent and the parsed client description
// in the request context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), userAgent)
		ctx = requestcontext.WithClient(ctx, DescribeClient(userAgent))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}
	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && len(xri) <= MaxXFFHeaderLength {
			if _, err := netip.ParseAddr(xri); err == nil {
				return xri
			}
		}
		return remoteIP
	}
	if len(xff) > MaxXFFHeaderLength {
		return remoteIP
	}

	// First hop is the original client.
	first, _, _ := strings.Cut(xff, ",")
	first = strings.TrimSpace(first)
	if _, err := netip.ParseAddr(first); err != nil {
		return remoteIP
	}
	return first
}

func (m *Middleware) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().String()
	}
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 && !strings.Contains(remoteAddr[:idx], ":") {
		return remoteAddr[:idx]
	}
	return strings.Trim(remoteAddr, "[]")
}

// DescribeClient returns "Browser on OS" (e.g. "Chrome on Windows 10"), or
// "Unknown client" for an empty User-Agent.
func DescribeClient(userAgent string) string {
	if userAgent == "" {
		return "Unknown client"
	}

	ua := useragent.New(userAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		if name == "" {
			return "Bot"
		}
		return name + " (bot)"
	}

	browser, _ := ua.Browser()
	os := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	if browser == "" {
		browser = "Unknown browser"
	}
	if os == "" {
		os = "unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
