package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/platform/config"
	"github.com/SscSPs/bizdesk/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var errInvalidCredentials = apperrors.NewAppError(http.StatusUnauthorized, "invalid email or password", nil)

// authService implements registration, login and profile management.
type authService struct {
	BaseService
	users portsrepo.UserRepositoryFacade
}

// NewAuthService creates the account service.
func NewAuthService(tenants portssvc.TenantResolver, users portsrepo.UserRepositoryFacade, opts ...ServiceOption) portssvc.AuthSvcFacade {
	return &authService{BaseService: newBaseService(tenants, opts...), users: users}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates a tenant root. The new user is its own tenant.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to hash password")
	}
	return s.createRoot(ctx, req.Name, req.Email, hash)
}

func (s *authService) createRoot(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.fail(ctx, err, "Failed to check email")
	}

	userID := s.newID()
	user := domain.User{
		UserID:       userID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		AuditFields:  domain.NewAuditFields(userID, s.now()),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, s.fail(ctx, err, "Failed to save user")
	}
	s.LogInfo(ctx, "Tenant root registered", slog.String("user_id", userID))
	return &user, nil
}

// Authenticate never tells whether the e-mail or the password was wrong.
func (s *authService) Authenticate(ctx context.Context, req dto.LoginRequest) (*domain.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, s.fail(ctx, err, "Failed to load user for login")
	}
	if user.DeletedAt != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogInfo(ctx, "Login rejected", slog.String("user_id", user.UserID))
		return nil, errInvalidCredentials
	}
	return user, nil
}

// LoginOAuth signs in by a provider-verified e-mail, registering a new tenant
// root on first use. OAuth-only users have no password.
func (s *authService) LoginOAuth(ctx context.Context, name, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewValidationFailedError("email is required")
	}
	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.DeletedAt != nil {
			return nil, errInvalidCredentials
		}
		return user, nil
	case errors.Is(err, apperrors.ErrNotFound):
		if name == "" {
			name = email
		}
		return s.createRoot(ctx, name, email, "")
	default:
		return nil, s.fail(ctx, err, "Failed to load user for oauth login")
	}
}

func (s *authService) Me(ctx context.Context) (*domain.User, error) {
	identity := s.Tenants.ResolveIdentity(ctx)
	if identity.IsAnonymous() {
		return nil, apperrors.NewUnauthenticatedError()
	}
	user, err := s.users.FindUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to load current user")
	}
	return user, nil
}

// UpdateProfile changes the caller's name. Callers re-issue the session
// afterwards so the token carries the new name.
func (s *authService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*domain.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Touch(user.UserID, s.now())
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, s.fail(ctx, err, "Failed to update profile", slog.String("user_id", user.UserID))
	}
	s.LogInfo(ctx, "Profile updated", slog.String("user_id", user.UserID))
	return user, nil
}

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	BaseService
	cfg   *config.Config
	users portsrepo.UserRepositoryFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, users portsrepo.UserRepositoryFacade, opts ...ServiceOption) portssvc.TokenSvcFacade {
	return &tokenService{BaseService: newBaseService(nil, opts...), cfg: cfg, users: users}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// IssueSession signs an access token for the user's current role and tenant
// and stores the hash of a fresh refresh token, revoking the previous one.
func (s *tokenService) IssueSession(ctx context.Context, user *domain.User) (*portssvc.Session, error) {
	now := s.now()
	accessToken, err := utils.GenerateJWT(user.Identity(), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
	}

	rawRefreshToken, refreshHash, err := utils.NewRefreshToken()
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("failed to generate refresh token: %w", err), "Failed to generate refresh token")
	}
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiryDuration)
	if err := s.users.UpdateRefreshToken(ctx, user.UserID, refreshHash, refreshExpiry); err != nil {
		return nil, s.fail(ctx, err, "Failed to store refresh token", slog.String("user_id", user.UserID))
	}

	return &portssvc.Session{
		AccessToken:      accessToken,
		AccessExpiresAt:  now.Add(s.cfg.JWTExpiryDuration),
		RefreshToken:     rawRefreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Refresh validates a refresh token against the stored hash and rotates it.
func (s *tokenService) Refresh(ctx context.Context, userID, refreshToken string) (*portssvc.Session, *domain.User, error) {
	if userID == "" || refreshToken == "" {
		return nil, nil, apperrors.NewUnauthenticatedError()
	}
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthenticatedError()
		}
		return nil, nil, s.fail(ctx, err, "Failed to load user for refresh", slog.String("user_id", userID))
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, nil, apperrors.NewUnauthenticatedError()
	}
	if s.now().After(*user.RefreshTokenExpiryTime) {
		return nil, nil, apperrors.NewAppError(http.StatusUnauthorized, "refresh token expired", apperrors.ErrRefreshTokenExpired)
	}
	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		s.LogInfo(ctx, "Refresh token mismatch", slog.String("user_id", userID))
		return nil, nil, apperrors.NewUnauthenticatedError()
	}

	session, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

func (s *tokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return s.fail(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
	}
	return nil
}

// --- GoogleOAuthHandlerSvcFacade Implementation ---

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg *config.Config
	// oauth2Config is configured at initialization time
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.RandomHex(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	exchangeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	token, err := s.oauth2Config.Exchange(exchangeCtx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}
	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
