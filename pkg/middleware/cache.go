package middleware

import "net/http"

// NoStore marks every response private and uncacheable. Review threads and
// moderation queues are per-caller data and must never be served from a
// shared cache.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, private")
		next.ServeHTTP(w, r)
	})
}
