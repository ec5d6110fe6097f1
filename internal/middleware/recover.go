package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/logging"
)

// RecoverMiddleware converts a handler panic into the standard error
// envelope so nothing below it escapes as a raw fault.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logging.Error("Handler panic recovered",
					"request_id", RequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)

				common.RespondError(w, initTime, nil, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
