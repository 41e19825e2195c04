package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the access token for browser clients.
const SessionCookieName = "session"

// SessionMiddleware verifies the access token when one is present and stores
// its claims on the request context. It never aborts: a missing or invalid
// token leaves the request anonymous and the guard decides what that means.
func SessionMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			msg := "Invalid session token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Session token has expired"
			}
			logger.Warn(msg, slog.String("error", err.Error()))
			c.Next()
			return
		}

		enriched := logger.With(slog.String("user_id", claims.Subject))
		ctx := WithSessionClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(WithLogger(ctx, enriched))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}
