package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/platform/httputil"
	"qrgen/pkg/requestcontext"
)

// CORS enforces the origin allow-list. Requests without an Origin header
// (server-to-server, curl) pass through; requests from an origin outside the
// list are rejected with 403 instead of merely lacking CORS headers.
func CORS(allowedOrigins []string, logger *slog.Logger) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})

	return func(next http.Handler) http.Handler {
		withHeaders := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !slices.Contains(allowedOrigins, origin) {
				ctx := r.Context()
				logger.WarnContext(ctx, "origin rejected by cors policy",
					"request_id", requestcontext.RequestID(ctx),
					"origin", origin,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Not allowed by CORS"))
				return
			}
			withHeaders.ServeHTTP(w, r)
		})
	}
}
