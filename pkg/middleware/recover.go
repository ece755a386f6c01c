package middleware

import (
	"fmt"
	"net/http"

	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a panic into a 500 envelope. In debug mode the panic value
// is echoed back.
func Recover(logger *zap.Logger, debug bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("PANIC recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					err := apperror.Internal("Some unexpected error happened.", fmt.Errorf("panic: %v", rec))
					utils.ResponseError(w, err, debug)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
