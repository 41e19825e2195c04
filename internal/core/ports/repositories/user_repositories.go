package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific, non-deleted user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's name and audit fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of the user's current refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes any stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// TeamRepository manages principals that belong to a tenant root.
// The partition column for team members is parent_admin_id.
type TeamRepository interface {
	ListTeamMembers(ctx context.Context, scope domain.TenantScope) ([]domain.User, error)
	FindTeamMember(ctx context.Context, scope domain.TenantScope, userID string) (*domain.User, error)
	UpdateTeamMemberRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role, at time.Time) error
	DeleteTeamMember(ctx context.Context, scope domain.TenantScope, userID string) error
}

// TenantAdministration is the operator-only surface over tenant roots.
type TenantAdministration interface {
	ListTenants(ctx context.Context, params domain.ListParams) (domain.Page[domain.TenantSummary], error)

	// DeleteTenant removes a tenant root, its team and every row of its partition.
	DeleteTenant(ctx context.Context, tenantID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	TeamRepository
	TenantAdministration
}
