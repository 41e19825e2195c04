package services

import (
	"context"

	"github.com/SscSPs/bizdesk/internal/core/domain"
)

// IdentityResolver turns the session attached to ctx into a principal.
// It never fails: a missing or stale session yields domain.Anonymous.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context) domain.Identity
}

// TenantResolver resolves the effective tenant of the caller. Services call it
// on every operation instead of caching the result.
type TenantResolver interface {
	IdentityResolver
	ResolveTenant(ctx context.Context) domain.TenantInfo
}
