package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/gin-gonic/gin"
)

// userHandler handles the caller's own profile and the tenant's team.
type userHandler struct {
	*authHandler
	team     portssvc.TeamSvcFacade
	operator portssvc.OperatorSvcFacade
}

// registerUserRoutes registers profile and team routes under the dashboard.
func registerUserRoutes(rg *gin.RouterGroup, h *userHandler) {
	profile := rg.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.updateProfile)
	}

	team := rg.Group("/team")
	{
		team.GET("", h.listTeam)
		team.POST("", h.createTeamMember)
		team.PUT("/:id/role", h.updateTeamMemberRole)
		team.DELETE("/:id", h.deleteTeamMember)
	}
}

// registerOperatorRoutes registers the cross-tenant support routes.
func registerOperatorRoutes(rg *gin.RouterGroup, h *userHandler) {
	tenants := rg.Group("/tenants")
	{
		tenants.GET("", h.listTenants)
		tenants.DELETE("/:id", h.deleteTenant)
	}
}

// getProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/profile [get]
func (h *userHandler) getProfile(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update own profile
// @Description Renames the caller and re-issues the session so the new name shows up at once.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/profile [put]
func (h *userHandler) updateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	h.startSession(c, user, http.StatusOK)
}

// listTeam godoc
// @Summary List team members
// @Tags team
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/team [get]
func (h *userHandler) listTeam(c *gin.Context) {
	members, err := h.team.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list team members")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserListResponse(members))
}

// createTeamMember godoc
// @Summary Add a team member
// @Tags team
// @Accept json
// @Produce json
// @Param member body dto.TeamMemberRequest true "Member"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/team [post]
func (h *userHandler) createTeamMember(c *gin.Context) {
	var req dto.TeamMemberRequest
	// The service authorizes before it validates, so a bad body from a
	// non-admin still answers 403.
	if err := c.ShouldBindWith(&req, jsonNoValidate{}); err != nil {
		bindJSONError(c, err)
		return
	}
	member, err := h.team.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(member))
}

// updateTeamMemberRole godoc
// @Summary Change a team member's role
// @Tags team
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param role body dto.TeamRoleRequest true "Role"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/team/{id}/role [put]
func (h *userHandler) updateTeamMemberRole(c *gin.Context) {
	var req dto.TeamRoleRequest
	if err := c.ShouldBindWith(&req, jsonNoValidate{}); err != nil {
		bindJSONError(c, err)
		return
	}
	member, err := h.team.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update team member role")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(member))
}

// deleteTeamMember godoc
// @Summary Remove a team member
// @Tags team
// @Param id path string true "Member ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/team/{id} [delete]
func (h *userHandler) deleteTeamMember(c *gin.Context) {
	if err := h.team.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete team member")
		return
	}
	c.Status(http.StatusNoContent)
}

// listTenants godoc
// @Summary List tenants
// @Description Support view over every tenant root. Operators only.
// @Tags operator
// @Produce json
// @Param search query string false "Name or email filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} domain.Page[domain.TenantSummary]
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /oraculo/tenants [get]
func (h *userHandler) listTenants(c *gin.Context) {
	q, ok := listParams(c)
	if !ok {
		return
	}
	page, err := h.operator.ListTenants(c.Request.Context(), q.ToParams())
	if err != nil {
		respondError(c, err, "Failed to list tenants")
		return
	}
	c.JSON(http.StatusOK, page)
}

// deleteTenant godoc
// @Summary Delete a tenant
// @Description Removes a tenant root, its team and all of its data. Operators only.
// @Tags operator
// @Param id path string true "Tenant ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /oraculo/tenants/{id} [delete]
func (h *userHandler) deleteTenant(c *gin.Context) {
	if err := h.operator.DeleteTenant(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete tenant")
		return
	}
	c.Status(http.StatusNoContent)
}
