package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/cache"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/SscSPs/bizdesk/internal/dto"
)

// entityService runs the pipeline every tenant-owned entity shares:
// validate, resolve tenant, check role, scoped persistence, invalidate views.
type entityService[T any, R any] struct {
	BaseService
	// entity names the listing view and the log subject, e.g. "suppliers".
	entity string
	repo   portsrepo.ScopedRepository[T]
	idOf   func(*T) string
	// build returns a new entity when existing is nil, otherwise existing with req applied.
	build func(ctx context.Context, tenant domain.TenantInfo, req R, existing *T) (T, error)
	// refs blocks deletion while other rows of the tenant point at the entity.
	refs portsrepo.ReferenceCounter
	// refsMessage explains a blocked deletion to the caller.
	refsMessage string
}

func (s *entityService[T, R]) Create(ctx context.Context, req R) (*T, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	entity, err := s.build(ctx, tenant, req, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tenant.Scope(), entity); err != nil {
		return nil, s.fail(ctx, err, "Failed to create "+s.entity, slog.String("tenant_id", tenant.TenantID))
	}
	id := s.idOf(&entity)
	s.invalidate(ctx, tenant.TenantID, s.entity)
	s.LogInfo(ctx, "Created "+s.entity, slog.String("id", id), slog.String("tenant_id", tenant.TenantID))
	return &entity, nil
}

func (s *entityService[T, R]) Get(ctx context.Context, id string) (*T, error) {
	tenant, err := s.authorize(ctx, actionRead)
	if err != nil {
		return nil, err
	}
	return cachedRead(ctx, &s.BaseService, tenant.TenantID, cache.View(s.entity, id), "", func() (*T, error) {
		entity, err := s.repo.FindByID(ctx, tenant.Scope(), id)
		if err != nil {
			return nil, s.fail(ctx, err, "Failed to load "+s.entity, slog.String("id", id))
		}
		return entity, nil
	})
}

func (s *entityService[T, R]) List(ctx context.Context, params domain.ListParams) (domain.Page[T], error) {
	tenant, err := s.authorize(ctx, actionRead)
	if err != nil {
		return domain.Page[T]{}, err
	}
	params = params.Normalize()
	return cachedRead(ctx, &s.BaseService, tenant.TenantID, s.entity, listKey(params), func() (domain.Page[T], error) {
		page, err := s.repo.List(ctx, tenant.Scope(), params)
		if err != nil {
			return page, s.fail(ctx, err, "Failed to list "+s.entity)
		}
		return page, nil
	})
}

func (s *entityService[T, R]) Update(ctx context.Context, id string, req R) (*T, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, tenant.Scope(), id)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to load "+s.entity, slog.String("id", id))
	}
	entity, err := s.build(ctx, tenant, req, existing)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tenant.Scope(), entity); err != nil {
		return nil, s.fail(ctx, err, "Failed to update "+s.entity, slog.String("id", id))
	}
	s.invalidate(ctx, tenant.TenantID, s.entity, id)
	s.LogInfo(ctx, "Updated "+s.entity, slog.String("id", id), slog.String("tenant_id", tenant.TenantID))
	return &entity, nil
}

func (s *entityService[T, R]) Delete(ctx context.Context, id string) error {
	tenant, err := s.authorize(ctx, actionDelete)
	if err != nil {
		return err
	}
	if s.refs != nil {
		n, err := s.refs.CountReferences(ctx, tenant.Scope(), id)
		if err != nil {
			return s.fail(ctx, err, "Failed to count references", slog.String("entity", s.entity), slog.String("id", id))
		}
		if n > 0 {
			s.LogInfo(ctx, "Delete blocked by references", slog.String("entity", s.entity), slog.String("id", id), slog.Int("references", n))
			return apperrors.NewReferentialConflictError(s.refsMessage)
		}
	}
	if err := s.repo.Delete(ctx, tenant.Scope(), id); err != nil {
		return s.fail(ctx, err, "Failed to delete "+s.entity, slog.String("id", id))
	}
	s.invalidate(ctx, tenant.TenantID, s.entity, id)
	s.LogInfo(ctx, "Deleted "+s.entity, slog.String("id", id), slog.String("tenant_id", tenant.TenantID))
	return nil
}
