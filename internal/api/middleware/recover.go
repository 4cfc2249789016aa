package middleware

import (
	"net/http"

	"github.com/ayo6706/transfer-simulator/internal/api/problem"
	"go.uber.org/zap"
)

// RecoverMiddleware converts handler panics into problem responses. A panic
// here never touches the running simulation.
func RecoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.String("trace_id", TraceIDFromContext(r.Context())),
					)
					problem.Write(w, r, http.StatusInternalServerError, problem.Type("internal-server-error"), "", "unexpected server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
