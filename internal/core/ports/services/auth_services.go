package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// Session is what a successful login hands to the client.
type Session struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthSvcFacade covers registration, login and the caller's own profile.
type AuthSvcFacade interface {
	// Register creates a new tenant root.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// Authenticate checks credentials and returns the user.
	Authenticate(ctx context.Context, req dto.LoginRequest) (*domain.User, error)
	// LoginOAuth finds the user by a verified e-mail or registers a new tenant root.
	LoginOAuth(ctx context.Context, name, email string) (*domain.User, error)
	// UpdateProfile changes the caller's own name.
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*domain.User, error)
	// Me returns the caller's own user record.
	Me(ctx context.Context) (*domain.User, error)
}

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// IssueSession signs an access token with the user's current role and
	// tenant, and rotates the stored refresh token.
	IssueSession(ctx context.Context, user *domain.User) (*Session, error)
	// Refresh validates a refresh token and issues a new session.
	Refresh(ctx context.Context, userID, refreshToken string) (*Session, *domain.User, error)
	// Revoke forgets the user's refresh token.
	Revoke(ctx context.Context, userID string) error
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
