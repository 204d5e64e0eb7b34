// Package middleware provides HTTP middleware for the gateway server.
package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/lexsum/lexsum/internal/apperrors"
)

// ErrorResponse is the envelope written by Recovery.
type ErrorResponse = apperrors.HTTPErrorResponse

// Recovery converts handler panics into a 500 response with the
// standard error envelope instead of tearing down the connection.
func Recovery(next http.Handler) http.Handler {
	return RecoveryWithLogger(next, zap.NewNop())
}

// RecoveryWithLogger is Recovery with panic logging.
func RecoveryWithLogger(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panicked",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec))
				apperrors.WriteError(w, http.StatusInternalServerError,
					apperrors.CodeInternalError,
					fmt.Sprintf("panic: %v", rec), nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
