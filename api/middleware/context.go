package middleware

import "context"

type contextKey string

const (
	ctxAdminID     contextKey = "admin_id"
	ctxRole        contextKey = "admin_role"
	ctxCartSession contextKey = "cart_session"
)

// AdminIDFromContext returns the authenticated admin, or zero.
func AdminIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxAdminID).(uint); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// CartSessionFromContext returns the visitor session id set by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

// WithCartSession injects a visitor session id. Tests use it to skip the cookie.
func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}

// WithAdmin injects an authenticated admin into the context.
func WithAdmin(ctx context.Context, adminID uint, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminID, adminID)
	return context.WithValue(ctx, ctxRole, role)
}
