package domain

import (
	"slices"
	"time"
)

// Role is the role a principal holds inside its tenant (or globally, for operators).
type Role string

const (
	RoleAdmin       Role = "ADMIN" // tenant root
	RoleManager     Role = "MANAGER"
	RoleSalesperson Role = "SALESPERSON"
	RoleFinance     Role = "FINANCE"
	RoleViewer      Role = "VIEWER"     // read only
	RoleRestricted  Role = "RESTRICTED" // may create and edit, never delete
	RoleOperator    Role = "OPERATOR"   // support staff, never sees tenant dashboards
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesperson, RoleFinance, RoleViewer, RoleRestricted, RoleOperator:
		return true
	}
	return false
}

// CanWrite reports whether the role may create or update tenant data.
func (r Role) CanWrite() bool {
	return r.IsValid() && r != RoleViewer && r != RoleOperator
}

// CanDelete reports whether the role may delete tenant data.
func (r Role) CanDelete() bool {
	return r.CanWrite() && r != RoleRestricted
}

// AssignableTeamRoles are the roles an administrator may give a team member.
var AssignableTeamRoles = []Role{RoleManager, RoleSalesperson, RoleFinance, RoleViewer, RoleRestricted}

// IsAssignable reports whether r may be given to a team member.
func (r Role) IsAssignable() bool {
	return slices.Contains(AssignableTeamRoles, r)
}

// User represents a principal of the application.
type User struct {
	UserID                 string     `json:"userID" db:"user_id"`
	Name                   string     `json:"name" db:"name"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	Role                   Role       `json:"role" db:"role"`
	ParentAdminID          *string    `json:"parentAdminID,omitempty" db:"parent_admin_id"`
	RefreshTokenHash       string     `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// IsTenantRoot reports whether the user owns its own data partition.
func (u *User) IsTenantRoot() bool {
	return u.ParentAdminID == nil && u.Role != RoleRestricted && u.Role != RoleOperator
}

// Identity returns the principal view of the user.
func (u *User) Identity() Identity {
	return Identity{
		UserID:        u.UserID,
		Role:          u.Role,
		ParentAdminID: u.ParentAdminID,
		Name:          u.Name,
		Email:         u.Email,
	}
}

// TenantSummary is what the operator area sees about a tenant root.
type TenantSummary struct {
	TenantID    string    `json:"tenantID" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	MemberCount int       `json:"memberCount" db:"member_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
