// Package requestcontext carries request-scoped values between middleware and
// services without either side importing net/http.
//
//	userID := requestcontext.UserID(ctx)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "qrgen/pkg/domain"
)

type key int

const (
	userIDKey key = iota
	requestIDKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// UserID is the authenticated caller, or the nil UUID outside protected routes.
func UserID(ctx context.Context) id.UserID {
	v, _ := value[id.UserID](ctx, userIDKey)
	return v
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func RequestID(ctx context.Context) string {
	v, _ := value[string](ctx, requestIDKey)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now is the time stamped on the request, or the wall clock when nothing
// stamped it (background work, unit tests).
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
