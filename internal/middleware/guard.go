package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizdesk/internal/core/access"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/metrics"
	"github.com/gin-gonic/gin"
)

// GuardMiddleware applies the routing decision for the request path. It must
// run after SessionMiddleware and before any tenant data is touched.
func GuardMiddleware(resolver portssvc.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		identity := resolver.ResolveIdentity(ctx)
		decision := access.Decide(c.Request.URL.Path, !identity.IsAnonymous(), identity.Role)
		metrics.GuardDecisions.WithLabelValues(decision.Outcome.String()).Inc()

		switch decision.Outcome {
		case access.Deny:
			GetLoggerFromCtx(ctx).Info("Guard denied request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "redirect": access.LoginPath})
		case access.Redirect:
			GetLoggerFromCtx(ctx).Info("Guard redirected request", slog.String("target", decision.Target))
			c.Header("Location", decision.Target)
			c.AbortWithStatusJSON(http.StatusTemporaryRedirect, gin.H{"redirect": decision.Target})
		default:
			if !identity.IsAnonymous() {
				c.Request = c.Request.WithContext(WithLogger(ctx, GetLoggerFromCtx(ctx).With(slog.String("role", string(identity.Role)))))
			}
			c.Next()
		}
	}
}
