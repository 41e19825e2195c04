package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

// KnownProviders lists the marketplaces an integration can be configured for.
var KnownProviders = map[domain.IntegrationProvider]bool{
	domain.ProviderNuvemshop: true,
}

type integrationService struct {
	BaseService
	repo portsrepo.IntegrationConfigRepositoryFacade
}

// NewIntegrationService creates the marketplace connection service. Only the
// tenant administrator may read or change credentials.
func NewIntegrationService(tenants portssvc.TenantResolver, repo portsrepo.IntegrationConfigRepositoryFacade, opts ...ServiceOption) portssvc.IntegrationSvcFacade {
	return &integrationService{BaseService: newBaseService(tenants, opts...), repo: repo}
}

var _ portssvc.IntegrationSvcFacade = (*integrationService)(nil)

func (s *integrationService) Get(ctx context.Context, provider domain.IntegrationProvider) (*domain.IntegrationConfig, error) {
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}
	if !KnownProviders[provider] {
		return nil, apperrors.NewNotFoundError("unknown integration")
	}
	cfg, err := s.repo.Find(ctx, tenant.Scope(), provider)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to load integration", slog.String("provider", string(provider)))
	}
	return cfg, nil
}

// Upsert saves the store connection. An empty access token keeps the stored one.
func (s *integrationService) Upsert(ctx context.Context, provider domain.IntegrationProvider, req dto.IntegrationConfigRequest) (*domain.IntegrationConfig, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}
	if !KnownProviders[provider] {
		return nil, apperrors.NewNotFoundError("unknown integration")
	}

	now := s.now()
	cfg, err := s.repo.Find(ctx, tenant.Scope(), provider)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		if req.AccessToken == "" {
			return nil, apperrors.NewFieldValidationError(map[string]string{"accessToken": "is required"})
		}
		cfg = &domain.IntegrationConfig{
			IntegrationID: s.newID(),
			UserID:        tenant.TenantID,
			Provider:      provider,
			AuditFields:   domain.NewAuditFields(tenant.UserID, now),
		}
	case err != nil:
		return nil, s.fail(ctx, err, "Failed to load integration", slog.String("provider", string(provider)))
	default:
		cfg.Touch(tenant.UserID, now)
	}
	cfg.StoreID = req.StoreID
	cfg.SyncEnabled = req.SyncEnabled
	if req.AccessToken != "" {
		cfg.AccessToken = req.AccessToken
	}

	if err := s.repo.Upsert(ctx, tenant.Scope(), *cfg); err != nil {
		return nil, s.fail(ctx, err, "Failed to save integration", slog.String("provider", string(provider)))
	}
	s.LogInfo(ctx, "Integration saved",
		slog.String("provider", string(provider)),
		slog.String("store_id", cfg.StoreID),
		slog.Bool("sync_enabled", cfg.SyncEnabled))
	return cfg, nil
}
