package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery turns handler panics into 500 responses with the stack logged.
// In production the body is a fixed message; elsewhere it carries the
// panic value so the cause is visible without digging through logs.
func Recovery(logger *slog.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					message := "Server error"
					if !production {
						message = fmt.Sprint(rec)
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					if err := json.NewEncoder(w).Encode(map[string]interface{}{
						"code":    http.StatusInternalServerError,
						"message": message,
					}); err != nil {
						logger.Error("failed to encode panic response", "error", err)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
