// Package errors writes error responses and logs them with the request ID.
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// InternalError logs the cause and returns a generic 500 to the client.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zap.L().Error(message,
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// BadRequest logs the cause and returns the client-safe message with a 400.
func BadRequest(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	zap.L().Warn("bad request",
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	http.Error(w, clientMessage, http.StatusBadRequest)
}

// LogError records a handler-level failure that is surfaced to the user
// through the page itself.
func LogError(r *http.Request, message string, err error) {
	zap.L().Error(message,
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
}
