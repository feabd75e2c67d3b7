package middleware

import "context"

type contextKey string

const (
	ctxAdminUsername contextKey = "admin_username"
	ctxAdminID       contextKey = "admin_id"
)

func AdminUsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminUsername).(string); ok {
		return v
	}
	return ""
}

func AdminIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxAdminID).(int64); ok {
		return v
	}
	return 0
}

// WithAdmin injects the authenticated admin into the context for downstream handlers.
func WithAdmin(ctx context.Context, id int64, username string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminID, id)
	return context.WithValue(ctx, ctxAdminUsername, username)
}
