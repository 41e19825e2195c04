package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/gin-gonic/gin"
)

// contextKey is the type of keys stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	claimsCtxKey = contextKey("sessionClaims")
)

// GetLoggerFromCtx returns the request-scoped logger, or the default logger
// outside of a request.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// WithSessionClaims stores verified session claims in ctx.
func WithSessionClaims(ctx context.Context, claims *utils.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// SessionClaimsFromCtx returns the verified claims of the request, if any.
func SessionClaimsFromCtx(ctx context.Context) (*utils.SessionClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(claimsCtxKey).(*utils.SessionClaims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext retrieves the authenticated user ID from the request.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	claims, ok := SessionClaimsFromCtx(c.Request.Context())
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
