package handlers

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/gin-gonic/gin"
)

// settingsHandler serves the tenant's company profile and marketplace connections.
type settingsHandler struct {
	company     portssvc.CompanySvcFacade
	integration portssvc.IntegrationSvcFacade
}

func registerSettingsRoutes(rg *gin.RouterGroup, company portssvc.CompanySvcFacade, integration portssvc.IntegrationSvcFacade) {
	h := &settingsHandler{company: company, integration: integration}

	rg.GET("/company", h.getCompany)
	rg.PUT("/company", h.upsertCompany)

	integrations := rg.Group("/integrations")
	{
		integrations.GET("/:provider", h.getIntegration)
		integrations.PUT("/:provider", h.upsertIntegration)
	}
}

func providerParam(c *gin.Context) domain.IntegrationProvider {
	return domain.IntegrationProvider(strings.ToLower(c.Param("provider")))
}

// getCompany godoc
// @Summary Get company profile
// @Tags company
// @Produce json
// @Success 200 {object} domain.Company
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/company [get]
func (h *settingsHandler) getCompany(c *gin.Context) {
	company, err := h.company.Get(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// upsertCompany godoc
// @Summary Create or update company profile
// @Tags company
// @Accept json
// @Produce json
// @Param company body dto.CompanyRequest true "Company"
// @Success 200 {object} domain.Company
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/company [put]
func (h *settingsHandler) upsertCompany(c *gin.Context) {
	var req dto.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.company.Upsert(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to save company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// getIntegration godoc
// @Summary Get marketplace integration
// @Description The access token is never returned, only whether one is stored.
// @Tags integrations
// @Produce json
// @Param provider path string true "Provider" Enums(nuvemshop)
// @Success 200 {object} dto.IntegrationConfigResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/integrations/{provider} [get]
func (h *settingsHandler) getIntegration(c *gin.Context) {
	cfg, err := h.integration.Get(c.Request.Context(), providerParam(c))
	if err != nil {
		respondError(c, err, "Failed to get integration")
		return
	}
	c.JSON(http.StatusOK, dto.ToIntegrationConfigResponse(cfg))
}

// upsertIntegration godoc
// @Summary Connect a marketplace store
// @Tags integrations
// @Accept json
// @Produce json
// @Param provider path string true "Provider" Enums(nuvemshop)
// @Param integration body dto.IntegrationConfigRequest true "Store connection"
// @Success 200 {object} dto.IntegrationConfigResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Store already connected to another account"
// @Security BearerAuth
// @Router /dashboard/integrations/{provider} [put]
func (h *settingsHandler) upsertIntegration(c *gin.Context) {
	var req dto.IntegrationConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	cfg, err := h.integration.Upsert(c.Request.Context(), providerParam(c), req)
	if err != nil {
		respondError(c, err, "Failed to save integration")
		return
	}
	c.JSON(http.StatusOK, dto.ToIntegrationConfigResponse(cfg))
}
