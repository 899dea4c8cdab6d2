// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets values; services read them without importing net/http.
//
// Usage in services (read values):
//
//	userID := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithViewer(ctx, viewer)
package requestcontext

import (
	"context"
	"time"
)

// Viewer is the authenticated identity attached to a request.
type Viewer struct {
	UserID   string
	Username string
	Role     string
	Division string
}

// Context key types (unexported for encapsulation).
type (
	viewerKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyViewer      = viewerKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// ViewerFrom retrieves the authenticated viewer from the context.
// The second return is false when no viewer is attached (unauthenticated path).
func ViewerFrom(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(ContextKeyViewer).(Viewer)
	return v, ok
}

// WithViewer injects the authenticated viewer into the context.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ContextKeyViewer, v)
}

// UserID retrieves the authenticated user id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	v, _ := ViewerFrom(ctx)
	return v.UserID
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests without middleware).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
