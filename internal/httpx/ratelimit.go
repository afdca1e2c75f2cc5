package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitByIP limits requests per client IP and answers with the JSON error
// envelope instead of httprate's plain-text body.
func RateLimitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			Fail(w, http.StatusTooManyRequests, ErrRateLimited, "too many requests, try again later")
		}),
	)
}
