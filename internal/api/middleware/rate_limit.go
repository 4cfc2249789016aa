package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/api/problem"
	"github.com/go-chi/httprate"
)

// StatusRateLimiter limits status polling per client IP.
func StatusRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			problem.Write(w, r, http.StatusTooManyRequests, problem.Type("rate-limit-exceeded"), "",
				fmt.Sprintf("Rate limit of %d req/s exceeded for this IP", rps))
		}),
	)
}
