package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/SscSPs/bizdesk/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// sessionCookies writes and clears the access and refresh cookies.
type sessionCookies struct {
	refreshName string
	refreshPath string
	secure      bool
}

func newSessionCookies(cfg *config.Config) sessionCookies {
	return sessionCookies{
		refreshName: cfg.RefreshTokenCookieName,
		refreshPath: cfg.RefreshTokenCookiePath,
		secure:      cfg.IsProduction,
	}
}

func (s sessionCookies) set(c *gin.Context, userID string, session *portssvc.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, session.AccessToken, maxAge(session.AccessExpiresAt), "/", "", s.secure, true)
	c.SetCookie(s.refreshName, userID+":"+session.RefreshToken, maxAge(session.RefreshExpiresAt), s.refreshPath, "", s.secure, true)
}

func (s sessionCookies) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", s.secure, true)
	c.SetCookie(s.refreshName, "", -1, s.refreshPath, "", s.secure, true)
}

// maxAge converts an expiry into a cookie lifetime in seconds.
func maxAge(expiresAt time.Time) int {
	seconds := int(time.Until(expiresAt).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

// refreshCredentials splits the refresh cookie into user ID and token.
func (s sessionCookies) refreshCredentials(c *gin.Context) (string, string, bool) {
	raw, err := c.Cookie(s.refreshName)
	if err != nil || raw == "" {
		return "", "", false
	}
	userID, token, found := strings.Cut(raw, ":")
	if !found || userID == "" || token == "" {
		return "", "", false
	}
	return userID, token, true
}

// authHandler handles registration, login and session renewal.
type authHandler struct {
	auth    portssvc.AuthSvcFacade
	tokens  portssvc.TokenSvcFacade
	cookies sessionCookies
}

func newAuthHandler(auth portssvc.AuthSvcFacade, tokens portssvc.TokenSvcFacade, cookies sessionCookies) *authHandler {
	return &authHandler{auth: auth, tokens: tokens, cookies: cookies}
}

// startSession issues a session for user, sets the cookies and answers with
// the access token and the user.
func (h *authHandler) startSession(c *gin.Context, user *domain.User, status int) {
	session, err := h.tokens.IssueSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to issue session")
		return
	}
	h.cookies.set(c, user.UserID, session)
	c.JSON(status, dto.LoginResponse{Token: session.AccessToken, User: dto.ToUserResponse(user)})
}

// login godoc
// @Summary User login
// @Description Authenticates a user and starts a session. The access token is returned and set as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	middleware.GetLoggerFromContext(c).Info("User logged in", slog.String("user_id", user.UserID))
	h.startSession(c, user, http.StatusOK)
}

// register godoc
// @Summary Register a new business
// @Description Creates a tenant root account and starts its session.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Tenant registered", slog.String("user_id", user.UserID))
	h.startSession(c, user, http.StatusCreated)
}

// refresh godoc
// @Summary Refresh the session
// @Description Rotates the refresh cookie and issues a new access token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	userID, token, ok := h.cookies.refreshCredentials(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError(), "Refresh cookie missing or malformed")
		return
	}
	session, user, err := h.tokens.Refresh(c.Request.Context(), userID, token)
	if err != nil {
		h.cookies.clear(c)
		respondError(c, err, "Session refresh failed")
		return
	}
	h.cookies.set(c, user.UserID, session)
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: session.AccessToken})
}

// logout godoc
// @Summary Log out
// @Description Revokes the refresh token and clears the session cookies.
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		if err := h.tokens.Revoke(c.Request.Context(), userID); err != nil {
			// the cookies are cleared anyway
			middleware.GetLoggerFromContext(c).Warn("Failed to revoke refresh token", slog.String("error", err.Error()))
		}
	}
	h.cookies.clear(c)
	c.Status(http.StatusNoContent)
}
