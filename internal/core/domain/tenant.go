package domain

// Identity is the authenticated principal behind a request. The zero value is anonymous.
type Identity struct {
	UserID        string
	Role          Role
	ParentAdminID *string
	Name          string
	Email         string
}

// Anonymous is the identity of a request without a resolvable session.
var Anonymous = Identity{}

// IsAnonymous reports whether no principal was resolved.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// TenantInfo is the result of tenant resolution. All fields are empty for anonymous callers.
type TenantInfo struct {
	UserID   string
	TenantID string
	Role     Role
}

// ResolveTenant derives the effective tenant: a team member inherits its parent
// administrator's partition, everyone else owns their own.
func ResolveTenant(identity Identity) TenantInfo {
	if identity.IsAnonymous() {
		return TenantInfo{}
	}
	tenantID := identity.UserID
	if identity.ParentAdminID != nil && *identity.ParentAdminID != "" {
		tenantID = *identity.ParentAdminID
	}
	return TenantInfo{
		UserID:   identity.UserID,
		TenantID: tenantID,
		Role:     identity.Role,
	}
}

// IsZero reports whether the tenant could not be resolved.
func (t TenantInfo) IsZero() bool {
	return t.TenantID == ""
}

// IsAdmin reports whether the caller is the administrator of its tenant.
func (t TenantInfo) IsAdmin() bool {
	return !t.IsZero() && t.Role == RoleAdmin && t.UserID == t.TenantID
}

// Scope returns the persistence scope for this tenant.
func (t TenantInfo) Scope() TenantScope {
	return TenantScope{TenantID: t.TenantID, ActorID: t.UserID}
}

// TenantScope is the only value the persistence layer accepts to build
// reads, updates and deletes of tenant-owned rows.
type TenantScope struct {
	TenantID string
	ActorID  string
}

// Valid reports whether the scope names a tenant.
func (s TenantScope) Valid() bool {
	return s.TenantID != ""
}
