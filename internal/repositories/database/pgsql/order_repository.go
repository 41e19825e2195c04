package pgsql

import (
	"context"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type orderRepository struct {
	BaseRepository
}

func newOrderRepository(pool DBPool) portsrepo.OrderImportRepository {
	return &orderRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderImportRepository = (*orderRepository)(nil)

// SaveImportedOrder writes customer, sale, receivable and shipment together.
// The unique (user_id, external_order_id) index on sales rejects a second import.
func (r *orderRepository) SaveImportedOrder(ctx context.Context, scope domain.TenantScope, order portsrepo.ImportedOrder) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if order.NewCustomer != nil {
			if err := insertScoped(ctx, tx, customerTable, scope, customerValues(*order.NewCustomer)); err != nil {
				return err
			}
		}
		if err := insertSale(ctx, tx, scope, order.Sale); err != nil {
			return err
		}
		if err := insertScoped(ctx, tx, transactionTable, scope, transactionValues(order.Transaction)); err != nil {
			return err
		}
		return insertScoped(ctx, tx, shipmentTable, scope, shipmentValues(order.Shipment))
	})
}
