package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var supplierTable = table{
	name:     "suppliers",
	entity:   "supplier",
	idColumn: "supplier_id",
	columns:  withAudit("supplier_id", "user_id", "name", "document", "email", "phone", "contact_name", "notes"),
	search:   []string{"name", "document", "email", "contact_name"},
	orderBy:  "name",
}

var customerTable = table{
	name:     "customers",
	entity:   "customer",
	idColumn: "customer_id",
	columns:  withAudit("customer_id", "user_id", "name", "email", "phone", "document", "address", "notes"),
	search:   []string{"name", "email", "phone", "document"},
	orderBy:  "name",
}

var companyTable = table{
	name:     "companies",
	entity:   "company",
	idColumn: "company_id",
	columns:  withAudit("company_id", "user_id", "name", "document", "email", "phone", "address"),
	orderBy:  "created_at",
}

type supplierRepository struct {
	BaseRepository
}

func newSupplierRepository(pool DBPool) portsrepo.SupplierRepositoryFacade {
	return &supplierRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SupplierRepositoryFacade = (*supplierRepository)(nil)

func (r *supplierRepository) Create(ctx context.Context, scope domain.TenantScope, s domain.Supplier) error {
	values := append([]any{s.SupplierID, s.UserID, s.Name, s.Document, s.Email, s.Phone, s.ContactName, s.Notes},
		auditValues(s.AuditFields)...)
	return insertScoped(ctx, r.Pool, supplierTable, scope, values)
}

func (r *supplierRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Supplier, error) {
	return findScoped[domain.Supplier](ctx, r.Pool, supplierTable, scope, id)
}

func (r *supplierRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Supplier], error) {
	return listScoped[domain.Supplier](ctx, r.Pool, supplierTable, scope, params)
}

func (r *supplierRepository) Update(ctx context.Context, scope domain.TenantScope, s domain.Supplier) error {
	return updateScoped(ctx, r.Pool, supplierTable, scope, s.SupplierID,
		[]string{"name", "document", "email", "phone", "contact_name", "notes", "last_updated_at", "last_updated_by"},
		[]any{s.Name, s.Document, s.Email, s.Phone, s.ContactName, s.Notes, s.LastUpdatedAt, s.LastUpdatedBy})
}

func (r *supplierRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, supplierTable, scope, id)
}

func (r *supplierRepository) CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error) {
	return countReferences(ctx, r.Pool, scope, id,
		reference{"transactions", "supplier_id"},
		reference{"supplier_quotes", "supplier_id"},
	)
}

type customerRepository struct {
	BaseRepository
}

func newCustomerRepository(pool DBPool) portsrepo.CustomerRepositoryFacade {
	return &customerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*customerRepository)(nil)

func customerValues(c domain.Customer) []any {
	return append([]any{c.CustomerID, c.UserID, c.Name, c.Email, c.Phone, c.Document, c.Address, c.Notes},
		auditValues(c.AuditFields)...)
}

func (r *customerRepository) Create(ctx context.Context, scope domain.TenantScope, c domain.Customer) error {
	return insertScoped(ctx, r.Pool, customerTable, scope, customerValues(c))
}

func (r *customerRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Customer, error) {
	return findScoped[domain.Customer](ctx, r.Pool, customerTable, scope, id)
}

func (r *customerRepository) FindByEmail(ctx context.Context, scope domain.TenantScope, email string) (*domain.Customer, error) {
	if !scope.Valid() {
		return nil, errMissingTenant()
	}
	query := fmt.Sprintf("SELECT %s FROM customers WHERE lower(email) = lower($1) AND user_id = $2 ORDER BY created_at LIMIT 1",
		customerTable.selectList())
	rows, err := r.Pool.Query(ctx, query, email, scope.TenantID)
	if err != nil {
		return nil, mapError(err, customerTable.entity)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.Customer])
	if err != nil {
		return nil, mapError(err, customerTable.entity)
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Customer], error) {
	return listScoped[domain.Customer](ctx, r.Pool, customerTable, scope, params)
}

func (r *customerRepository) Update(ctx context.Context, scope domain.TenantScope, c domain.Customer) error {
	return updateScoped(ctx, r.Pool, customerTable, scope, c.CustomerID,
		[]string{"name", "email", "phone", "document", "address", "notes", "last_updated_at", "last_updated_by"},
		[]any{c.Name, c.Email, c.Phone, c.Document, c.Address, c.Notes, c.LastUpdatedAt, c.LastUpdatedBy})
}

func (r *customerRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, customerTable, scope, id)
}

func (r *customerRepository) CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error) {
	return countReferences(ctx, r.Pool, scope, id,
		reference{"sales", "customer_id"},
		reference{"transactions", "customer_id"},
	)
}

type companyRepository struct {
	BaseRepository
}

func newCompanyRepository(pool DBPool) portsrepo.CompanyRepositoryFacade {
	return &companyRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*companyRepository)(nil)

func (r *companyRepository) Find(ctx context.Context, scope domain.TenantScope) (*domain.Company, error) {
	if !scope.Valid() {
		return nil, errMissingTenant()
	}
	rows, err := r.Pool.Query(ctx, fmt.Sprintf("SELECT %s FROM companies WHERE user_id = $1", companyTable.selectList()), scope.TenantID)
	if err != nil {
		return nil, mapError(err, companyTable.entity)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.Company])
	if err != nil {
		return nil, mapError(err, companyTable.entity)
	}
	return c, nil
}

// Upsert relies on the unique user_id constraint: one company per tenant.
func (r *companyRepository) Upsert(ctx context.Context, scope domain.TenantScope, c domain.Company) error {
	if !scope.Valid() {
		return errMissingTenant()
	}
	query := `
		INSERT INTO companies (company_id, user_id, name, document, email, phone, address,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			document = EXCLUDED.document,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`
	_, err := r.Pool.Exec(ctx, query, c.CompanyID, scope.TenantID, c.Name, c.Document, c.Email, c.Phone, c.Address,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	return mapError(err, companyTable.entity)
}
