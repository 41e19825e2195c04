package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/utils"
)

type teamService struct {
	BaseService
	users portsrepo.UserRepositoryFacade
}

// NewTeamService creates the team management service. Every operation
// requires the caller to be the administrator of its tenant, and the check
// runs before the payload is looked at.
func NewTeamService(tenants portssvc.TenantResolver, users portsrepo.UserRepositoryFacade, opts ...ServiceOption) portssvc.TeamSvcFacade {
	return &teamService{BaseService: newBaseService(tenants, opts...), users: users}
}

var _ portssvc.TeamSvcFacade = (*teamService)(nil)

func (s *teamService) List(ctx context.Context) ([]domain.User, error) {
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}
	members, err := s.users.ListTeamMembers(ctx, tenant.Scope())
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to list team members")
	}
	if members == nil {
		members = []domain.User{}
	}
	return members, nil
}

func (s *teamService) Create(ctx context.Context, req dto.TeamMemberRequest) (*domain.User, error) {
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	role, err := teamRole(req.Role)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.fail(ctx, err, "Failed to check email")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to hash password")
	}
	parent := tenant.TenantID
	member := domain.User{
		UserID:        s.newID(),
		Name:          req.Name,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		ParentAdminID: &parent,
		AuditFields:   domain.NewAuditFields(tenant.UserID, s.now()),
	}
	if err := s.users.SaveUser(ctx, member); err != nil {
		return nil, s.fail(ctx, err, "Failed to save team member")
	}
	s.LogInfo(ctx, "Team member created",
		slog.String("member_id", member.UserID),
		slog.String("role", req.Role),
		slog.String("tenant_id", tenant.TenantID))
	return &member, nil
}

func (s *teamService) UpdateRole(ctx context.Context, memberID string, req dto.TeamRoleRequest) (*domain.User, error) {
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	role, err := teamRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateTeamMemberRole(ctx, tenant.Scope(), memberID, role, s.now()); err != nil {
		return nil, s.fail(ctx, err, "Failed to update team member role", slog.String("member_id", memberID))
	}
	member, err := s.users.FindTeamMember(ctx, tenant.Scope(), memberID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reload team member", slog.String("member_id", memberID))
	}
	s.LogInfo(ctx, "Team member role changed", slog.String("member_id", memberID), slog.String("role", req.Role))
	return member, nil
}

func (s *teamService) Delete(ctx context.Context, memberID string) error {
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return err
	}
	if memberID == tenant.UserID {
		return apperrors.NewValidationFailedError("administrators cannot remove themselves")
	}
	if err := s.users.DeleteTeamMember(ctx, tenant.Scope(), memberID); err != nil {
		return s.fail(ctx, err, "Failed to delete team member", slog.String("member_id", memberID))
	}
	s.LogInfo(ctx, "Team member deleted", slog.String("member_id", memberID), slog.String("tenant_id", tenant.TenantID))
	return nil
}

type operatorService struct {
	BaseService
	tenants portsrepo.TenantAdministration
}

// NewOperatorService creates the support service over all tenants.
func NewOperatorService(resolver portssvc.TenantResolver, tenants portsrepo.TenantAdministration, opts ...ServiceOption) portssvc.OperatorSvcFacade {
	return &operatorService{BaseService: newBaseService(resolver, opts...), tenants: tenants}
}

var _ portssvc.OperatorSvcFacade = (*operatorService)(nil)

func (s *operatorService) requireOperator(ctx context.Context) (domain.TenantInfo, error) {
	var caller domain.TenantInfo
	if s.Tenants != nil {
		caller = s.Tenants.ResolveTenant(ctx)
	}
	if caller.IsZero() {
		return caller, apperrors.NewUnauthenticatedError()
	}
	if caller.Role != domain.RoleOperator {
		return caller, apperrors.NewUnauthorizedError(fmt.Sprintf("role %s may not administer tenants", caller.Role))
	}
	return caller, nil
}

func (s *operatorService) ListTenants(ctx context.Context, params domain.ListParams) (domain.Page[domain.TenantSummary], error) {
	if _, err := s.requireOperator(ctx); err != nil {
		return domain.Page[domain.TenantSummary]{}, err
	}
	page, err := s.tenants.ListTenants(ctx, params.Normalize())
	if err != nil {
		return page, s.fail(ctx, err, "Failed to list tenants")
	}
	return page, nil
}

// DeleteTenant removes a tenant root with its team and every row it owns.
func (s *operatorService) DeleteTenant(ctx context.Context, tenantID string) error {
	caller, err := s.requireOperator(ctx)
	if err != nil {
		return err
	}
	if tenantID == caller.UserID {
		return apperrors.NewValidationFailedError("operators cannot delete themselves")
	}
	if err := s.tenants.DeleteTenant(ctx, tenantID); err != nil {
		return s.fail(ctx, err, "Failed to delete tenant", slog.String("tenant_id", tenantID))
	}
	s.LogInfo(ctx, "Tenant deleted by operator", slog.String("tenant_id", tenantID), slog.String("operator_id", caller.UserID))
	return nil
}

func teamRole(raw string) (domain.Role, error) {
	role := domain.Role(raw)
	if !role.IsAssignable() {
		return "", apperrors.NewFieldValidationError(map[string]string{"role": "cannot be assigned to a team member"})
	}
	return role, nil
}
