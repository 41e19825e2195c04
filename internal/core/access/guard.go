// Package access holds the routing-level authorization decision.
package access

import (
	"strings"

	"github.com/SscSPs/bizdesk/internal/core/domain"
)

const (
	OperatorArea  = "/oraculo"
	DashboardArea = "/dashboard"
	LoginPath     = "/login"
	RegisterPath  = "/register"
)

// Outcome is the kind of routing decision.
type Outcome int

const (
	Allow Outcome = iota
	Deny
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the result of Decide. Target is set only for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Decide maps a request path and the caller's authentication state to a decision.
// It is stateless and must run before any tenant-scoped data access.
func Decide(path string, authenticated bool, role domain.Role) Decision {
	switch {
	case underArea(path, OperatorArea):
		if authenticated && role == domain.RoleOperator {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Redirect, Target: DashboardArea}

	case underArea(path, DashboardArea):
		if !authenticated {
			return Decision{Outcome: Deny}
		}
		if role == domain.RoleOperator {
			return Decision{Outcome: Redirect, Target: OperatorArea}
		}
		return Decision{Outcome: Allow}

	case path == LoginPath || path == RegisterPath:
		if authenticated {
			return Decision{Outcome: Redirect, Target: HomeFor(role)}
		}
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Allow}
}

// HomeFor returns the landing area for a role.
func HomeFor(role domain.Role) string {
	if role == domain.RoleOperator {
		return OperatorArea
	}
	return DashboardArea
}

// underArea matches the area root and anything below it, but not siblings
// sharing a prefix ("/dashboards").
func underArea(path, area string) bool {
	return path == area || strings.HasPrefix(path, area+"/")
}
