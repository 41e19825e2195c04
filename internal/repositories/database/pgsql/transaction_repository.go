package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
)

var transactionTable = table{
	name:     "transactions",
	entity:   "transaction",
	idColumn: "transaction_id",
	columns: withAudit("transaction_id", "user_id", "type", "description", "amount", "status", "due_date",
		"paid_at", "category_id", "supplier_id", "customer_id", "sale_id", "external_order_id"),
	search:  []string{"description", "external_order_id"},
	orderBy: "due_date DESC, created_at DESC",
}

type transactionRepository struct {
	BaseRepository
}

func newTransactionRepository(pool DBPool) portsrepo.TransactionRepositoryFacade {
	return &transactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func transactionValues(t domain.Transaction) []any {
	return append([]any{t.TransactionID, t.UserID, t.Type, t.Description, t.Amount, t.Status, t.DueDate,
		t.PaidAt, t.CategoryID, t.SupplierID, t.CustomerID, t.SaleID, t.ExternalOrderID}, auditValues(t.AuditFields)...)
}

func (r *transactionRepository) Create(ctx context.Context, scope domain.TenantScope, t domain.Transaction) error {
	return insertScoped(ctx, r.Pool, transactionTable, scope, transactionValues(t))
}

func (r *transactionRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Transaction, error) {
	return findScoped[domain.Transaction](ctx, r.Pool, transactionTable, scope, id)
}

func (r *transactionRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Transaction], error) {
	return listScoped[domain.Transaction](ctx, r.Pool, transactionTable, scope, params)
}

func (r *transactionRepository) Update(ctx context.Context, scope domain.TenantScope, t domain.Transaction) error {
	return updateScoped(ctx, r.Pool, transactionTable, scope, t.TransactionID,
		[]string{"type", "description", "amount", "status", "due_date", "paid_at", "category_id", "supplier_id",
			"customer_id", "last_updated_at", "last_updated_by"},
		[]any{t.Type, t.Description, t.Amount, t.Status, t.DueDate, t.PaidAt, t.CategoryID, t.SupplierID,
			t.CustomerID, t.LastUpdatedAt, t.LastUpdatedBy})
}

func (r *transactionRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, transactionTable, scope, id)
}

func (r *transactionRepository) MarkPaid(ctx context.Context, scope domain.TenantScope, transactionID string, paidAt time.Time) (bool, error) {
	where, args, err := scopedWhere(scope, transactionTable, transactionID, 3)
	if err != nil {
		return false, err
	}
	query := `UPDATE transactions SET status = 'PAID', paid_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE ` + where + ` AND status = $3`
	tag, err := r.Pool.Exec(ctx, query, append([]any{paidAt, scope.ActorID, domain.TransactionPending}, args...)...)
	if err != nil {
		return false, mapError(err, transactionTable.entity)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkOrderPaid only touches PENDING rows, so a repeated event changes nothing.
func (r *transactionRepository) MarkOrderPaid(ctx context.Context, scope domain.TenantScope, externalOrderID string, paidAt time.Time) (int64, error) {
	if !scope.Valid() {
		return 0, errMissingTenant()
	}
	query := `UPDATE transactions SET status = 'PAID', paid_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE user_id = $3 AND external_order_id = $4 AND status = 'PENDING'`
	tag, err := r.Pool.Exec(ctx, query, paidAt, scope.ActorID, scope.TenantID, externalOrderID)
	if err != nil {
		return 0, mapError(err, transactionTable.entity)
	}
	return tag.RowsAffected(), nil
}

func (r *transactionRepository) Summary(ctx context.Context, scope domain.TenantScope) (domain.FinancialSummary, error) {
	if !scope.Valid() {
		return domain.FinancialSummary{}, errMissingTenant()
	}
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME' AND status = 'PAID'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME' AND status = 'PENDING'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE' AND status = 'PAID'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE' AND status = 'PENDING'), 0)
		FROM transactions
		WHERE user_id = $1`
	var s domain.FinancialSummary
	err := r.Pool.QueryRow(ctx, query, scope.TenantID).Scan(&s.IncomePaid, &s.IncomePending, &s.ExpensePaid, &s.ExpensePending)
	if err != nil {
		return domain.FinancialSummary{}, mapError(err, transactionTable.entity)
	}
	s.Balance = s.IncomePaid.Sub(s.ExpensePaid)
	return s, nil
}
