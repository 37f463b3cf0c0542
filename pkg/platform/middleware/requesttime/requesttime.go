// Package requesttime stamps each request with a single "now" so every record
// written while serving it shares one creation time.
package requesttime

import (
	"net/http"
	"time"

	"qrgen/pkg/requestcontext"
)

// Middleware stamps requests with the wall clock.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock stamps requests with the time returned by now.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
