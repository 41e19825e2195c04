package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// itemTable is a child table of line items. Items carry the tenant key too,
// so they are scoped exactly like their parent.
type itemTable struct {
	name         string
	parentColumn string
}

var (
	quoteItems = itemTable{name: "supplier_quote_items", parentColumn: "quote_id"}
	saleItems  = itemTable{name: "sale_items", parentColumn: "sale_id"}
)

func loadItems(ctx context.Context, db DBTX, it itemTable, scope domain.TenantScope, parentID string) ([]domain.LineItem, error) {
	if !scope.Valid() {
		return nil, errMissingTenant()
	}
	query := fmt.Sprintf(`SELECT item_id, product_id, service_id, description, quantity, unit_price, total
		FROM %s WHERE %s = $1 AND user_id = $2 ORDER BY position`, it.name, it.parentColumn)
	rows, err := db.Query(ctx, query, parentID, scope.TenantID)
	if err != nil {
		return nil, mapError(err, "line item")
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LineItem])
	if err != nil {
		return nil, mapError(err, "line item")
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

// insertItems queues all items in one batch on tx.
func insertItems(ctx context.Context, tx pgx.Tx, it itemTable, scope domain.TenantScope, parentID string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (item_id, %s, user_id, product_id, service_id, description, quantity, unit_price, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, it.name, it.parentColumn)

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ItemID, parentID, scope.TenantID, item.ProductID, item.ServiceID,
			item.Description, item.Quantity, item.UnitPrice, item.Total, i)
	}

	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return mapError(err, "line item")
		}
	}
	return mapError(results.Close(), "line item")
}

func deleteItems(ctx context.Context, tx pgx.Tx, it itemTable, scope domain.TenantScope, parentID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND user_id = $2", it.name, it.parentColumn)
	_, err := tx.Exec(ctx, query, parentID, scope.TenantID)
	return mapError(err, "line item")
}

// replaceItems swaps the full item set of a parent inside tx.
func replaceItems(ctx context.Context, tx pgx.Tx, it itemTable, scope domain.TenantScope, parentID string, items []domain.LineItem) error {
	if err := deleteItems(ctx, tx, it, scope, parentID); err != nil {
		return err
	}
	return insertItems(ctx, tx, it, scope, parentID, items)
}
