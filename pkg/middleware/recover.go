package middleware

import (
	"net/http"

	"seat-chart/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 wrapped in the standard JSON
// envelope, so a crashing request still answers in the same shape every
// other error does. The stack goes to the log, never to the client.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("PANIC recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					utils.ResponseInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
