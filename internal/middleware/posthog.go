package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware records one analytics event per successful request on a
// matched route. Events are named after the route template with the area
// prefix kept, e.g. "dashboard_suppliers_:id_put".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if route == "" || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		claims, ok := SessionClaimsFromCtx(c.Request.Context())
		if !ok || claims.Subject == "" {
			return
		}

		tenantID := claims.Subject
		if claims.ParentAdminID != nil && *claims.ParentAdminID != "" {
			tenantID = *claims.ParentAdminID
		}
		event := strings.ReplaceAll(strings.TrimPrefix(route, "/"), "/", "_") + "_" + strings.ToLower(c.Request.Method)

		props := map[string]any{
			"status_code": c.Writer.Status(),
			"role":        string(claims.Role),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			props["params"] = params
		}
		posthogClient.Capture(claims.Subject, tenantID, event, props)
	}
}
