package access_test

import (
	"testing"

	"github.com/SscSPs/bizdesk/internal/core/access"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		role          domain.Role
		want          access.Decision
	}{
		{"anonymous dashboard is denied", "/dashboard/suppliers", false, "", access.Decision{Outcome: access.Deny}},
		{"anonymous dashboard root is denied", "/dashboard", false, "", access.Decision{Outcome: access.Deny}},
		{"operator on dashboard goes to operator area", "/dashboard/sales", true, domain.RoleOperator, access.Decision{Outcome: access.Redirect, Target: "/oraculo"}},
		{"member on dashboard is allowed", "/dashboard/sales", true, domain.RoleSalesperson, access.Decision{Outcome: access.Allow}},
		{"admin on operator area goes to dashboard", "/oraculo/tenants", true, domain.RoleAdmin, access.Decision{Outcome: access.Redirect, Target: "/dashboard"}},
		{"anonymous on operator area goes to dashboard", "/oraculo", false, "", access.Decision{Outcome: access.Redirect, Target: "/dashboard"}},
		{"operator on operator area is allowed", "/oraculo/tenants", true, domain.RoleOperator, access.Decision{Outcome: access.Allow}},
		{"logged in member on login goes home", "/login", true, domain.RoleFinance, access.Decision{Outcome: access.Redirect, Target: "/dashboard"}},
		{"logged in operator on register goes to operator area", "/register", true, domain.RoleOperator, access.Decision{Outcome: access.Redirect, Target: "/oraculo"}},
		{"anonymous login is allowed", "/login", false, "", access.Decision{Outcome: access.Allow}},
		{"prefix sibling is not the dashboard", "/dashboards", false, "", access.Decision{Outcome: access.Allow}},
		{"webhook is open", "/api/webhooks/nuvemshop", false, "", access.Decision{Outcome: access.Allow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Decide(tt.path, tt.authenticated, tt.role))
		})
	}
}
