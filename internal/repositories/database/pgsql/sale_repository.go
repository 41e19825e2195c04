package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var saleTable = table{
	name:     "sales",
	entity:   "sale",
	idColumn: "sale_id",
	columns: withAudit("sale_id", "user_id", "customer_id", "status", "channel", "payment_method",
		"external_order_id", "sold_at", "notes", "total"),
	search:  []string{"notes", "payment_method", "external_order_id"},
	orderBy: "sold_at DESC",
}

type saleRepository struct {
	BaseRepository
}

func newSaleRepository(pool DBPool) portsrepo.SaleRepositoryFacade {
	return &saleRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SaleRepositoryFacade = (*saleRepository)(nil)

func insertSale(ctx context.Context, tx pgx.Tx, scope domain.TenantScope, s domain.Sale) error {
	values := append([]any{s.SaleID, s.UserID, s.CustomerID, s.Status, s.Channel, s.PaymentMethod,
		s.ExternalOrderID, s.SoldAt, s.Notes, s.Total}, auditValues(s.AuditFields)...)
	if err := insertScoped(ctx, tx, saleTable, scope, values); err != nil {
		return err
	}
	return insertItems(ctx, tx, saleItems, scope, s.SaleID, s.Items)
}

func (r *saleRepository) Create(ctx context.Context, scope domain.TenantScope, s domain.Sale) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return insertSale(ctx, tx, scope, s)
	})
}

func (r *saleRepository) withItems(ctx context.Context, scope domain.TenantScope, s *domain.Sale, err error) (*domain.Sale, error) {
	if err != nil {
		return nil, err
	}
	if s.Items, err = loadItems(ctx, r.Pool, saleItems, scope, s.SaleID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *saleRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Sale, error) {
	s, err := findScoped[domain.Sale](ctx, r.Pool, saleTable, scope, id)
	return r.withItems(ctx, scope, s, err)
}

func (r *saleRepository) FindByExternalOrder(ctx context.Context, scope domain.TenantScope, externalOrderID string) (*domain.Sale, error) {
	s, err := findOneWhere[domain.Sale](ctx, r.Pool, saleTable, scope, "external_order_id", externalOrderID)
	return r.withItems(ctx, scope, s, err)
}

func (r *saleRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Sale], error) {
	return listScoped[domain.Sale](ctx, r.Pool, saleTable, scope, params)
}

// Update rewrites the header, total and items of a sale in one transaction.
func (r *saleRepository) Update(ctx context.Context, scope domain.TenantScope, s domain.Sale) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		err := updateScoped(ctx, tx, saleTable, scope, s.SaleID,
			[]string{"customer_id", "payment_method", "sold_at", "notes", "total", "last_updated_at", "last_updated_by"},
			[]any{s.CustomerID, s.PaymentMethod, s.SoldAt, s.Notes, s.Total, s.LastUpdatedAt, s.LastUpdatedBy})
		if err != nil {
			return err
		}
		return replaceItems(ctx, tx, saleItems, scope, s.SaleID, s.Items)
	})
}

// setSaleStatus changes the status only while it still equals from.
func setSaleStatus(ctx context.Context, db DBTX, scope domain.TenantScope, saleID string, from, to domain.SaleStatus, at time.Time) (bool, error) {
	where, args, err := scopedWhere(scope, saleTable, saleID, 4)
	if err != nil {
		return false, err
	}
	query := "UPDATE sales SET status = $1, last_updated_at = $2, last_updated_by = $3 WHERE " + where + " AND status = $4"
	tag, err := db.Exec(ctx, query, append([]any{to, at, scope.ActorID, from}, args...)...)
	if err != nil {
		return false, mapError(err, saleTable.entity)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *saleRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, saleID string, from, to domain.SaleStatus, at time.Time) (bool, error) {
	return setSaleStatus(ctx, r.Pool, scope, saleID, from, to, at)
}

// Complete closes a pending sale and inserts its income in one transaction.
func (r *saleRepository) Complete(ctx context.Context, scope domain.TenantScope, saleID string, income domain.Transaction, at time.Time) (bool, error) {
	completed := false
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		changed, err := setSaleStatus(ctx, tx, scope, saleID, domain.SalePending, domain.SaleCompleted, at)
		if err != nil || !changed {
			return err
		}
		if err := insertScoped(ctx, tx, transactionTable, scope, transactionValues(income)); err != nil {
			return err
		}
		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

func (r *saleRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, saleTable, scope, id)
}
