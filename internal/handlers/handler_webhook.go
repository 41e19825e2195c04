package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// webhookHandler receives marketplace notifications. Requests carry no
// session; the store ID in the body decides the tenant.
type webhookHandler struct {
	webhooks  portssvc.WebhookSvcFacade
	appSecret string
}

func registerWebhookRoutes(rg *gin.RouterGroup, webhooks portssvc.WebhookSvcFacade, appSecret string, limit gin.HandlerFunc) {
	h := &webhookHandler{webhooks: webhooks, appSecret: appSecret}

	hooks := rg.Group("/webhooks")
	{
		hooks.GET("/:integration", h.ping)
		hooks.POST("/:integration", limit, h.receive)
	}
}

// ping godoc
// @Summary Webhook endpoint check
// @Description Lets the marketplace verify the endpoint is reachable.
// @Tags webhooks
// @Produce json
// @Param integration path string true "Provider" Enums(nuvemshop)
// @Success 200 {object} map[string]string
// @Router /api/webhooks/{integration} [get]
func (h *webhookHandler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// receive godoc
// @Summary Receive a marketplace event
// @Description Routes an order event to the tenant owning the store. Events for unknown stores are acknowledged and dropped.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param integration path string true "Provider" Enums(nuvemshop)
// @Param X-Linkedstore-Hmac-Sha256 header string false "HMAC-SHA256 of the body"
// @Param event body marketplace.WebhookEvent true "Event"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Bad signature"
// @Failure 500 {object} dto.ErrorResponse "Processing failed, the platform retries"
// @Router /api/webhooks/{integration} [post]
func (h *webhookHandler) receive(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	provider := domain.IntegrationProvider(strings.ToLower(c.Param("integration")))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("unreadable request body"), "Failed to read webhook body")
		return
	}

	if h.appSecret != "" && !marketplace.VerifySignature(h.appSecret, body, c.GetHeader(marketplace.SignatureHeader)) {
		logger.Warn("Webhook signature mismatch", slog.String("integration", string(provider)))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event marketplace.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"), "Failed to decode webhook event")
		return
	}

	outcome, err := h.webhooks.HandleEvent(c.Request.Context(), provider, event)
	if err != nil {
		respondError(c, err, "Failed to process webhook event")
		return
	}

	logger.Info("Webhook handled",
		slog.String("integration", string(provider)),
		slog.String("event", event.Event),
		slog.String("outcome", string(outcome)))
	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": outcome})
}
