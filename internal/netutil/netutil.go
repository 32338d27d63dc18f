package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 512

// NormalizeIP takes either a bare IP or an address with a port
// ("192.0.2.4:1234", "[2001:db8::1]:443") and returns the IP without any
// zone. The second result reports whether parsing succeeded.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		if addr := addrPort.Addr().WithZone(""); addr.IsValid() {
			return addr.String(), true
		}
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		if addr = addr.WithZone(""); addr.IsValid() {
			return addr.String(), true
		}
	}
	// bracketed IPv6 with a non-numeric port, e.g. "[::1]:port"
	if strings.HasPrefix(raw, "[") && strings.Contains(raw, "]") {
		if addr, err := netip.ParseAddr(raw[1:strings.LastIndex(raw, "]")]); err == nil {
			if addr = addr.WithZone(""); addr.IsValid() {
				return addr.String(), true
			}
		}
	}
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		if addr, err := netip.ParseAddr(raw[:idx]); err == nil {
			if addr = addr.WithZone(""); addr.IsValid() {
				return addr.String(), true
			}
		}
	}
	return raw, false
}

// ClientIP returns the caller's address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip, ok := NormalizeIP(strings.Split(xff, ",")[0]); ok {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip, ok := NormalizeIP(xr); ok {
			return ip
		}
	}
	if ip, ok := NormalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

// TruncateUserAgent trims overly long user agents to MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	var b strings.Builder
	b.Grow(len(ua))
	count := 0
	for _, r := range ua {
		b.WriteRune(r)
		count++
		if count >= MaxUserAgentLength {
			break
		}
	}
	return b.String()
}

// DomainURL returns scheme://host for the request, honouring
// X-Forwarded-Proto and X-Forwarded-Host.
func DomainURL(r *http.Request) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return Scheme(r) + "://" + host
}

// Scheme returns "https" or "http" for the request as the client saw it.
func Scheme(r *http.Request) string {
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// SafeRedirect returns to if it is a same-site absolute path, otherwise def.
// Protocol-relative ("//evil") and backslash variants are rejected.
func SafeRedirect(to, def string) string {
	if def == "" {
		def = "/"
	}
	to = strings.TrimSpace(to)
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.Contains(to, "\\") {
		return def
	}
	return to
}
