package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var quoteTable = table{
	name:     "supplier_quotes",
	entity:   "supplier quote",
	idColumn: "quote_id",
	columns:  withAudit("quote_id", "user_id", "supplier_id", "title", "status", "valid_until", "notes", "total"),
	search:   []string{"title", "notes"},
	orderBy:  "created_at DESC",
}

type supplierQuoteRepository struct {
	BaseRepository
}

func newSupplierQuoteRepository(pool DBPool) portsrepo.SupplierQuoteRepositoryFacade {
	return &supplierQuoteRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SupplierQuoteRepositoryFacade = (*supplierQuoteRepository)(nil)

func (r *supplierQuoteRepository) Create(ctx context.Context, scope domain.TenantScope, q domain.SupplierQuote) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		values := append([]any{q.QuoteID, q.UserID, q.SupplierID, q.Title, q.Status, q.ValidUntil, q.Notes, q.Total},
			auditValues(q.AuditFields)...)
		if err := insertScoped(ctx, tx, quoteTable, scope, values); err != nil {
			return err
		}
		return insertItems(ctx, tx, quoteItems, scope, q.QuoteID, q.Items)
	})
}

func (r *supplierQuoteRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.SupplierQuote, error) {
	q, err := findScoped[domain.SupplierQuote](ctx, r.Pool, quoteTable, scope, id)
	if err != nil {
		return nil, err
	}
	if q.Items, err = loadItems(ctx, r.Pool, quoteItems, scope, id); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *supplierQuoteRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.SupplierQuote], error) {
	return listScoped[domain.SupplierQuote](ctx, r.Pool, quoteTable, scope, params)
}

// Update rewrites the header, total and items of a quote in one transaction.
func (r *supplierQuoteRepository) Update(ctx context.Context, scope domain.TenantScope, q domain.SupplierQuote) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		err := updateScoped(ctx, tx, quoteTable, scope, q.QuoteID,
			[]string{"supplier_id", "title", "valid_until", "notes", "total", "last_updated_at", "last_updated_by"},
			[]any{q.SupplierID, q.Title, q.ValidUntil, q.Notes, q.Total, q.LastUpdatedAt, q.LastUpdatedBy})
		if err != nil {
			return err
		}
		return replaceItems(ctx, tx, quoteItems, scope, q.QuoteID, q.Items)
	})
}

// ReplaceItems writes the new items and the recomputed total in one transaction.
func (r *supplierQuoteRepository) ReplaceItems(ctx context.Context, scope domain.TenantScope, q domain.SupplierQuote) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		err := updateScoped(ctx, tx, quoteTable, scope, q.QuoteID,
			[]string{"total", "last_updated_at", "last_updated_by"},
			[]any{q.Total, q.LastUpdatedAt, q.LastUpdatedBy})
		if err != nil {
			return err
		}
		return replaceItems(ctx, tx, quoteItems, scope, q.QuoteID, q.Items)
	})
}

func (r *supplierQuoteRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, quoteID string, status domain.QuoteStatus, at time.Time) error {
	return updateScoped(ctx, r.Pool, quoteTable, scope, quoteID,
		[]string{"status", "last_updated_at", "last_updated_by"},
		[]any{status, at, scope.ActorID})
}

func (r *supplierQuoteRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, quoteTable, scope, id)
}
