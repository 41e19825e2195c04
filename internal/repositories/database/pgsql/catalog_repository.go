package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var categoryTable = table{
	name:     "categories",
	entity:   "category",
	idColumn: "category_id",
	columns:  withAudit("category_id", "user_id", "name", "type", "color"),
	search:   []string{"name"},
	orderBy:  "name",
}

var productTable = table{
	name:     "products",
	entity:   "product",
	idColumn: "product_id",
	columns: withAudit("product_id", "user_id", "name", "sku", "description", "category_id",
		"price", "cost", "stock", "min_stock", "is_active"),
	search:  []string{"name", "sku", "description"},
	orderBy: "name",
}

var offeringTable = table{
	name:     "services",
	entity:   "service",
	idColumn: "service_id",
	columns: withAudit("service_id", "user_id", "name", "description", "category_id",
		"price", "duration_minutes", "is_active"),
	search:  []string{"name", "description"},
	orderBy: "name",
}

type categoryRepository struct {
	BaseRepository
}

func newCategoryRepository(pool DBPool) portsrepo.CategoryRepositoryFacade {
	return &categoryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

func (r *categoryRepository) Create(ctx context.Context, scope domain.TenantScope, c domain.Category) error {
	values := append([]any{c.CategoryID, c.UserID, c.Name, c.Type, c.Color}, auditValues(c.AuditFields)...)
	return insertScoped(ctx, r.Pool, categoryTable, scope, values)
}

func (r *categoryRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Category, error) {
	return findScoped[domain.Category](ctx, r.Pool, categoryTable, scope, id)
}

func (r *categoryRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Category], error) {
	return listScoped[domain.Category](ctx, r.Pool, categoryTable, scope, params)
}

func (r *categoryRepository) Update(ctx context.Context, scope domain.TenantScope, c domain.Category) error {
	return updateScoped(ctx, r.Pool, categoryTable, scope, c.CategoryID,
		[]string{"name", "type", "color", "last_updated_at", "last_updated_by"},
		[]any{c.Name, c.Type, c.Color, c.LastUpdatedAt, c.LastUpdatedBy})
}

func (r *categoryRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, categoryTable, scope, id)
}

func (r *categoryRepository) CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error) {
	return countReferences(ctx, r.Pool, scope, id,
		reference{"products", "category_id"},
		reference{"services", "category_id"},
		reference{"transactions", "category_id"},
	)
}

type productRepository struct {
	BaseRepository
}

func newProductRepository(pool DBPool) portsrepo.ProductRepositoryFacade {
	return &productRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*productRepository)(nil)

func (r *productRepository) Create(ctx context.Context, scope domain.TenantScope, p domain.Product) error {
	values := append([]any{p.ProductID, p.UserID, p.Name, p.SKU, p.Description, p.CategoryID,
		p.Price, p.Cost, p.Stock, p.MinStock, p.IsActive}, auditValues(p.AuditFields)...)
	return insertScoped(ctx, r.Pool, productTable, scope, values)
}

func (r *productRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Product, error) {
	return findScoped[domain.Product](ctx, r.Pool, productTable, scope, id)
}

func (r *productRepository) FindBySKU(ctx context.Context, scope domain.TenantScope, sku string) (*domain.Product, error) {
	return findOneWhere[domain.Product](ctx, r.Pool, productTable, scope, "sku", sku)
}

func (r *productRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Product], error) {
	return listScoped[domain.Product](ctx, r.Pool, productTable, scope, params)
}

func (r *productRepository) Update(ctx context.Context, scope domain.TenantScope, p domain.Product) error {
	return updateScoped(ctx, r.Pool, productTable, scope, p.ProductID,
		[]string{"name", "sku", "description", "category_id", "price", "cost", "stock", "min_stock", "is_active", "last_updated_at", "last_updated_by"},
		[]any{p.Name, p.SKU, p.Description, p.CategoryID, p.Price, p.Cost, p.Stock, p.MinStock, p.IsActive, p.LastUpdatedAt, p.LastUpdatedBy})
}

func (r *productRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, productTable, scope, id)
}

func (r *productRepository) CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error) {
	return countReferences(ctx, r.Pool, scope, id,
		reference{"sale_items", "product_id"},
		reference{"supplier_quote_items", "product_id"},
	)
}

func (r *productRepository) AdjustStock(ctx context.Context, scope domain.TenantScope, productID string, delta int, at time.Time) (int, error) {
	where, args, err := scopedWhere(scope, productTable, productID, 3)
	if err != nil {
		return 0, err
	}
	query := `UPDATE products SET stock = stock + $1, last_updated_at = $2, last_updated_by = $3
		WHERE ` + where + ` AND stock + $1 >= 0
		RETURNING stock`
	var stock int
	err = r.Pool.QueryRow(ctx, query, append([]any{delta, at, scope.ActorID}, args...)...).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, mapError(err, productTable.entity)
	}

	// No row: either the product is missing or the decrement was rejected.
	if _, findErr := r.FindByID(ctx, scope, productID); findErr != nil {
		return 0, findErr
	}
	return 0, apperrors.NewValidationFailedError("insufficient stock")
}

type offeringRepository struct {
	BaseRepository
}

func newOfferingRepository(pool DBPool) portsrepo.ServiceOfferingRepositoryFacade {
	return &offeringRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ServiceOfferingRepositoryFacade = (*offeringRepository)(nil)

func (r *offeringRepository) Create(ctx context.Context, scope domain.TenantScope, s domain.ServiceOffering) error {
	values := append([]any{s.ServiceID, s.UserID, s.Name, s.Description, s.CategoryID,
		s.Price, s.DurationMinutes, s.IsActive}, auditValues(s.AuditFields)...)
	return insertScoped(ctx, r.Pool, offeringTable, scope, values)
}

func (r *offeringRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.ServiceOffering, error) {
	return findScoped[domain.ServiceOffering](ctx, r.Pool, offeringTable, scope, id)
}

func (r *offeringRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.ServiceOffering], error) {
	return listScoped[domain.ServiceOffering](ctx, r.Pool, offeringTable, scope, params)
}

func (r *offeringRepository) Update(ctx context.Context, scope domain.TenantScope, s domain.ServiceOffering) error {
	return updateScoped(ctx, r.Pool, offeringTable, scope, s.ServiceID,
		[]string{"name", "description", "category_id", "price", "duration_minutes", "is_active", "last_updated_at", "last_updated_by"},
		[]any{s.Name, s.Description, s.CategoryID, s.Price, s.DurationMinutes, s.IsActive, s.LastUpdatedAt, s.LastUpdatedBy})
}

func (r *offeringRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, offeringTable, scope, id)
}
