package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/httputil"
	"qrgen/pkg/requestcontext"
)

// Recovery turns handler panics into a generic 500 response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				logger.ErrorContext(ctx, "panic recovered",
					"request_id", requestcontext.RequestID(ctx),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "Internal server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
