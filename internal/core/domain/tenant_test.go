package domain_test

import (
	"testing"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolveTenant(t *testing.T) {
	t.Run("anonymous resolves to nothing", func(t *testing.T) {
		info := domain.ResolveTenant(domain.Anonymous)
		assert.True(t, info.IsZero())
		assert.Equal(t, domain.TenantInfo{}, info)
	})

	t.Run("tenant root owns its partition", func(t *testing.T) {
		info := domain.ResolveTenant(domain.Identity{UserID: "root-1", Role: domain.RoleAdmin})
		assert.Equal(t, "root-1", info.TenantID)
		assert.Equal(t, "root-1", info.UserID)
		assert.True(t, info.IsAdmin())
	})

	t.Run("team member inherits parent partition", func(t *testing.T) {
		info := domain.ResolveTenant(domain.Identity{UserID: "member-1", Role: domain.RoleSalesperson, ParentAdminID: strPtr("root-1")})
		assert.Equal(t, "root-1", info.TenantID)
		assert.Equal(t, "member-1", info.UserID)
		assert.False(t, info.IsAdmin())
		assert.Equal(t, domain.TenantScope{TenantID: "root-1", ActorID: "member-1"}, info.Scope())
	})

	t.Run("empty parent pointer is ignored", func(t *testing.T) {
		info := domain.ResolveTenant(domain.Identity{UserID: "u", Role: domain.RoleAdmin, ParentAdminID: strPtr("")})
		assert.Equal(t, "u", info.TenantID)
	})
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, domain.RoleAdmin.CanDelete())
	assert.True(t, domain.RoleRestricted.CanWrite())
	assert.False(t, domain.RoleRestricted.CanDelete())
	assert.False(t, domain.RoleViewer.CanWrite())
	assert.False(t, domain.RoleOperator.CanWrite())
	assert.False(t, domain.Role("OWNER").IsValid())
}

func TestRoleIsAssignable(t *testing.T) {
	for _, role := range domain.AssignableTeamRoles {
		assert.True(t, role.IsAssignable(), role)
		assert.True(t, role.IsValid(), role)
	}
	assert.False(t, domain.RoleAdmin.IsAssignable())
	assert.False(t, domain.RoleOperator.IsAssignable())
	assert.False(t, domain.Role("").IsAssignable())
}

func TestListParamsNormalize(t *testing.T) {
	p := domain.ListParams{Page: 0, PageSize: 1000}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, domain.MaxPageSize, p.PageSize)
	assert.Equal(t, 40, domain.ListParams{Page: 3, PageSize: 20}.Offset())
}
