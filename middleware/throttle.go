package middleware

import (
	"net/http"

	"github.com/credgate/credgate/ratelimit"
)

// ClientIdentifier computes the throttling identity for a request:
// authenticated user marker first, then the first forwarded address, then
// the shared anonymous bucket.
func ClientIdentifier(r *http.Request) string {
	return ratelimit.ClientIdentifier(
		r.Header.Get("X-User-ID"),
		r.Header.Get("X-Forwarded-For"),
	)
}

// Throttle admits requests through the limiter's policy. Denials — budget
// exhausted or backend unreachable alike — answer 429; a limiter outage
// never turns into a free pass or a 500.
func Throttle(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			if !limiter.Admit(r.Context(), r.URL.Path, ClientIdentifier(r)) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
