package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/middleware"
)

// identityService reloads the principal behind the session on every call so
// that role and team changes apply without waiting for the token to expire.
type identityService struct {
	BaseService
	users portsrepo.UserReader
}

// NewIdentityService creates the identity and tenant resolver.
func NewIdentityService(users portsrepo.UserReader) portssvc.TenantResolver {
	return &identityService{users: users}
}

var _ portssvc.TenantResolver = (*identityService)(nil)

func (s *identityService) ResolveIdentity(ctx context.Context) domain.Identity {
	claims, ok := middleware.SessionClaimsFromCtx(ctx)
	if !ok {
		return domain.Anonymous
	}

	var (
		user *domain.User
		err  error
	)
	switch {
	case claims.Subject != "":
		user, err = s.users.FindUserByID(ctx, claims.Subject)
	case claims.Email != "":
		// tokens issued before the subject was embedded only carry the e-mail
		user, err = s.users.FindUserByEmail(ctx, claims.Email)
	default:
		return domain.Anonymous
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load session principal", slog.String("user_id", claims.Subject))
		}
		return domain.Anonymous
	}
	if user == nil || user.DeletedAt != nil {
		return domain.Anonymous
	}
	return user.Identity()
}

func (s *identityService) ResolveTenant(ctx context.Context) domain.TenantInfo {
	return domain.ResolveTenant(s.ResolveIdentity(ctx))
}
