// Package middleware provides HTTP middleware for the AI tools API.
package middleware

import "net/http"

// CORS returns middleware that handles CORS headers. The backend is consumed
// by browser frontends on arbitrary origins, so it is normally configured
// with the "*" wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allow := ""
			for _, o := range allowedOrigins {
				if o == "*" {
					allow = "*"
					break
				}
				if o == origin {
					allow = origin
					break
				}
			}

			if allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				// Credentials are only allowed for explicit origins; a
				// wildcard plus credentials would enable CSRF.
				if allow != "*" {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
