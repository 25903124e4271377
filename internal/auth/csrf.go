package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// CSRF returns middleware that validates Origin/Referer headers on
// state-changing requests. The request's own host is always allowed.
func CSRF(allowedOrigins []string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				if referer := r.Header.Get("Referer"); referer != "" {
					origin = extractOrigin(referer)
				}
			}
			if origin == "" {
				http.Error(w, "CSRF validation failed: missing origin", http.StatusForbidden)
				return
			}
			if !sameHost(origin, r.Host) && !allowedSet[normalizeOrigin(origin)] {
				http.Error(w, "CSRF validation failed: invalid origin", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

// extractOrigin extracts the origin (scheme://host:port) from a URL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
