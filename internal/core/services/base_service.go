package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/cache"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/metrics"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/google/uuid"
)

// action is what an operation does to tenant data; it decides the role check.
type action int

const (
	actionRead action = iota
	actionWrite
	actionDelete
	actionAdmin
)

func (a action) String() string {
	switch a {
	case actionWrite:
		return "write"
	case actionDelete:
		return "delete"
	case actionAdmin:
		return "admin"
	default:
		return "read"
	}
}

// BaseService provides common functionality for all services
type BaseService struct {
	Tenants portssvc.TenantResolver
	Views   cache.ViewCache
	Clock   func() time.Time
	NewID   func() string
}

// ServiceOption configures the shared parts of a service.
type ServiceOption func(*BaseService)

// WithViewCache sets the cache used for list and detail reads.
func WithViewCache(views cache.ViewCache) ServiceOption {
	return func(b *BaseService) { b.Views = views }
}

// WithClock pins the time stamped on records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(b *BaseService) { b.Clock = clock }
}

// WithIDGenerator replaces uuid generation, mainly for tests.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(b *BaseService) { b.NewID = newID }
}

func newBaseService(tenants portssvc.TenantResolver, opts ...ServiceOption) BaseService {
	b := BaseService{
		Tenants: tenants,
		Views:   cache.Disabled{},
		Clock:   time.Now,
		NewID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

func (s *BaseService) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *BaseService) views() cache.ViewCache {
	if s.Views == nil {
		return cache.Disabled{}
	}
	return s.Views
}

// authorize resolves the caller's tenant afresh and checks that its role allows act.
func (s *BaseService) authorize(ctx context.Context, act action) (domain.TenantInfo, error) {
	var tenant domain.TenantInfo
	if s.Tenants != nil {
		tenant = s.Tenants.ResolveTenant(ctx)
	}
	if tenant.IsZero() {
		metrics.TenantContextMissing.Inc()
		s.LogDebug(ctx, "Operation attempted without tenant context", slog.String("action", act.String()))
		return tenant, apperrors.NewUnauthenticatedError()
	}

	allowed := tenant.Role.IsValid()
	switch act {
	case actionWrite:
		allowed = tenant.Role.CanWrite()
	case actionDelete:
		allowed = tenant.Role.CanDelete()
	case actionAdmin:
		allowed = tenant.IsAdmin()
	}
	if !allowed {
		s.LogInfo(ctx, "Operation denied for role",
			slog.String("action", act.String()),
			slog.String("role", string(tenant.Role)),
			slog.String("tenant_id", tenant.TenantID))
		return tenant, apperrors.NewUnauthorizedError(fmt.Sprintf("role %s may not %s this resource", tenant.Role, act))
	}
	return tenant, nil
}

// invalidate bumps the listing view of entity and the detail view of every id.
// Cache failures are logged and never fail the mutation.
func (s *BaseService) invalidate(ctx context.Context, tenantID, entity string, ids ...string) {
	views := make([]string, 0, len(ids)+1)
	views = append(views, entity)
	for _, id := range ids {
		views = append(views, cache.View(entity, id))
	}
	if err := s.views().Invalidate(ctx, tenantID, views...); err != nil {
		s.LogError(ctx, err, "Failed to invalidate views", slog.String("entity", entity))
	}
}

// fail logs storage failures; domain errors pass through untouched.
func (s *BaseService) fail(ctx context.Context, err error, msg string, keyvals ...any) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || errors.Is(err, apperrors.ErrPersistence) {
		s.LogError(ctx, err, msg, keyvals...)
	}
	return err
}

// cachedRead serves view/key from the cache or loads and stores it.
func cachedRead[T any](ctx context.Context, s *BaseService, tenantID, view, key string, load func() (T, error)) (T, error) {
	var out T
	hit, err := s.views().Get(ctx, tenantID, view, key, &out)
	if err != nil {
		s.LogError(ctx, err, "View cache read failed", slog.String("view", view))
	} else if hit {
		return out, nil
	}

	out, err = load()
	if err != nil {
		return out, err
	}
	if err := s.views().Set(ctx, tenantID, view, key, out); err != nil {
		s.LogError(ctx, err, "View cache write failed", slog.String("view", view))
	}
	return out, nil
}

// listKey identifies one page of a listing view.
func listKey(params domain.ListParams) string {
	return fmt.Sprintf("p%d:s%d:q=%s", params.Page, params.PageSize, params.Search)
}

// requireInTenant turns a missing referenced row into a field validation error.
func requireInTenant(ctx context.Context, field string, id *string, find func(ctx context.Context, id string) error) error {
	if id == nil || *id == "" {
		return nil
	}
	if err := find(ctx, *id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewFieldValidationError(map[string]string{field: "does not exist"})
		}
		return err
	}
	return nil
}

// existsIn adapts a scoped reader to requireInTenant.
func existsIn[T any](repo portsrepo.ScopedReader[T], scope domain.TenantScope) func(context.Context, string) error {
	return func(ctx context.Context, id string) error {
		_, err := repo.FindByID(ctx, scope, id)
		return err
	}
}
