package handlers

import (
	"log/slog"

	"github.com/SscSPs/bizdesk/cmd/docs"
	"github.com/SscSPs/bizdesk/internal/core/access"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/SscSPs/bizdesk/internal/platform/config"
	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultRateLimit = "10-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Every browser-facing route reads the session; the guard decides per area.
	session := r.Group("", middleware.SessionMiddleware(cfg.JWTSecret))
	guard := middleware.GuardMiddleware(services.Tenants)

	auth := newAuthHandler(services.Auth, services.Token, newSessionCookies(cfg))
	registerAuthRoutes(session, cfg, auth, services.GoogleOAuth, guard)

	dashboard := session.Group(access.DashboardArea, guard, middleware.PosthogMiddleware(posthogClient))
	users := &userHandler{authHandler: auth, team: services.Team, operator: services.Operator}
	registerUserRoutes(dashboard, users)
	registerBusinessRoutes(dashboard, services)
	registerSettingsRoutes(dashboard, services.Company, services.Integration)

	operator := session.Group(access.OperatorArea, guard, middleware.PosthogMiddleware(posthogClient))
	registerOperatorRoutes(operator, users)

	api := r.Group("/api")
	registerWebhookRoutes(api, services.Webhook, cfg.MarketplaceAppSecret, newRateLimiter(cfg.WebhookRateLimit))

	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up login, registration and session renewal.
func registerAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, h *authHandler, google portssvc.GoogleOAuthHandlerSvcFacade, guard gin.HandlerFunc) {
	rg.POST(access.LoginPath, guard, newRateLimiter(cfg.LoginRateLimit), h.login)
	rg.POST(access.RegisterPath, guard, h.register)

	oauth := &googleOAuthHandler{google: google, authHandler: h}
	auth := rg.Group("/auth")
	{
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
		auth.GET("/google/login", oauth.googleLogin)
		auth.POST("/google/exchange", oauth.exchangeCode)
	}
}

// newRateLimiter builds a per-IP limiter from a ulule rate such as "5-M".
func newRateLimiter(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid rate limit, using default", slog.String("rate", formatted), slog.String("default", defaultRateLimit))
		rate, _ = limiter.NewRateFromFormatted(defaultRateLimit)
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
