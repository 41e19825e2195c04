package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/core/services"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func withClaims(subject, email string) context.Context {
	claims := &utils.SessionClaims{Email: email, RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}
	return middleware.WithSessionClaims(context.Background(), claims)
}

func TestResolveTenant_TeamMemberInheritsParent(t *testing.T) {
	repo := new(MockUserRepository)
	parent := tenantA
	repo.FindUserByIDFn = func(_ context.Context, userID string) (*domain.User, error) {
		return &domain.User{UserID: userID, Role: domain.RoleFinance, ParentAdminID: &parent}, nil
	}
	resolver := services.NewIdentityService(repo)

	tenant := resolver.ResolveTenant(withClaims("member-1", ""))

	assert.Equal(t, domain.TenantInfo{UserID: "member-1", TenantID: tenantA, Role: domain.RoleFinance}, tenant)
}

func TestResolveTenant_RootOwnsPartition(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByID", mock.Anything, tenantA).Return(&domain.User{UserID: tenantA, Role: domain.RoleAdmin}, nil).Once()
	resolver := services.NewIdentityService(repo)

	tenant := resolver.ResolveTenant(withClaims(tenantA, ""))

	assert.Equal(t, tenantA, tenant.TenantID)
	assert.True(t, tenant.IsAdmin())
}

func TestResolveIdentity_FallsBackToEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByEmail", mock.Anything, "legacy@shop.test").
		Return(&domain.User{UserID: "legacy-1", Role: domain.RoleAdmin}, nil).Once()
	resolver := services.NewIdentityService(repo)

	identity := resolver.ResolveIdentity(withClaims("", "legacy@shop.test"))

	assert.Equal(t, "legacy-1", identity.UserID)
	repo.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
}

func TestResolveIdentity_AnonymousCases(t *testing.T) {
	deletedAt := time.Now()
	tests := []struct {
		name  string
		ctx   context.Context
		setup func(repo *MockUserRepository)
	}{
		{
			name: "no claims",
			ctx:  context.Background(),
		},
		{
			name: "claims without subject or email",
			ctx:  withClaims("", ""),
		},
		{
			name: "user no longer exists",
			ctx:  withClaims("gone", ""),
			setup: func(repo *MockUserRepository) {
				repo.On("FindUserByID", mock.Anything, "gone").Return(nil, apperrors.NewNotFoundError("user not found"))
			},
		},
		{
			name: "user soft deleted",
			ctx:  withClaims("deleted", ""),
			setup: func(repo *MockUserRepository) {
				repo.On("FindUserByID", mock.Anything, "deleted").Return(&domain.User{UserID: "deleted", DeletedAt: &deletedAt}, nil)
			},
		},
		{
			name: "storage failure",
			ctx:  withClaims("any", ""),
			setup: func(repo *MockUserRepository) {
				repo.On("FindUserByID", mock.Anything, "any").Return(nil, errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			resolver := services.NewIdentityService(repo)

			assert.True(t, resolver.ResolveIdentity(tt.ctx).IsAnonymous())
			assert.True(t, resolver.ResolveTenant(tt.ctx).IsZero())
		})
	}
}
