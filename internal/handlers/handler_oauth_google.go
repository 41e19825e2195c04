package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// googleOAuthHandler exchanges a Google authorization code for a session.
type googleOAuthHandler struct {
	google portssvc.GoogleOAuthHandlerSvcFacade
	*authHandler
}

// googleLogin godoc
// @Summary Google login URL
// @Description Returns the Google consent URL together with the CSRF state the client must echo back.
// @Tags oauth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) googleLogin(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.google.GenerateStateString(ctx)
	if err != nil {
		respondError(c, apperrors.NewInternalServerError("failed to start Google login"), "Failed to generate OAuth state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.google.GetGoogleLoginURL(ctx, state), "state": state})
}

// exchangeCode godoc
// @Summary Exchange Google authorization code
// @Description Validates the Google ID token, logs in or registers the user and starts a session.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.GoogleExchangeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 401 {object} dto.ErrorResponse "Invalid Google ID token"
// @Failure 504 {object} dto.ErrorResponse "Google unreachable"
// @Router /auth/google/exchange [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c)

	var req dto.GoogleExchangeRequest
	if !bindJSON(c, &req) {
		return
	}

	oauth2Token, err := h.google.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		appErr := apperrors.NewGatewayTimeoutError("failed to communicate with Google")
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			appErr = apperrors.NewBadRequestError("invalid or expired authorization code")
		}
		appErr.Err = err
		respondError(c, appErr, "Failed to exchange authorization code with Google")
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		respondError(c, apperrors.NewInternalServerError("failed to retrieve ID token from Google"), "ID token missing in Google response")
		return
	}

	payload, err := h.google.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		appErr := apperrors.NewUnauthenticatedError()
		appErr.Err = err
		respondError(c, appErr, "Google ID token validation failed")
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if verified, present := payload.Claims["email_verified"].(bool); present && !verified {
		respondError(c, apperrors.NewUnauthorizedError("Google account email is not verified"), "Unverified Google email")
		return
	}
	if email == "" {
		respondError(c, apperrors.NewBadRequestError("Google account has no email"), "Email claim missing from Google token")
		return
	}

	user, err := h.auth.LoginOAuth(ctx, name, email)
	if err != nil {
		respondError(c, err, "Failed to log in Google user")
		return
	}
	logger.Info("User logged in with Google", slog.String("user_id", user.UserID))
	h.startSession(c, user, http.StatusOK)
}
