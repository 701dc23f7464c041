// security.go - Security headers for all responses.
package server

import "net/http"

// securityHeadersMiddleware adds defensive headers. The service serves
// JSON and redirects, so the policy can stay strict.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Referrer Policy - don't leak share URLs
		w.Header().Set("Referrer-Policy", "no-referrer")

		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}
