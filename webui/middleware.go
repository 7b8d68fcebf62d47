package webui

import (
	"net/http"

	"go.uber.org/zap"
)

// OperationGuard admits requests while the server is not shutting down.
// *shutdown.OperationTracker satisfies it.
type OperationGuard interface {
	Start() bool
	Done()
}

// trackOperations rejects requests with 503 once guard is closed and keeps
// admitted requests counted until they finish.
func trackOperations(guard OperationGuard, next http.Handler) http.Handler {
	if guard == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !guard.Start() {
			w.Header().Set("Connection", "close")
			writeError(w, http.StatusServiceUnavailable, "shutting_down", "server is shutting down")
			return
		}
		defer guard.Done()
		next.ServeHTTP(w, r)
	})
}

// recoverPanics turns a handler panic into a 500 response.
func recoverPanics(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("Handler panic",
					zap.Any("panic", v),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Stack("stack"),
				)
				writeError(w, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
