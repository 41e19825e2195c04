package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
)

var shipmentTable = table{
	name:     "shipments",
	entity:   "shipment",
	idColumn: "shipment_id",
	columns: withAudit("shipment_id", "user_id", "sale_id", "external_order_id", "carrier", "tracking_code",
		"status", "address"),
	search:  []string{"tracking_code", "carrier", "address", "external_order_id"},
	orderBy: "created_at DESC",
}

type shipmentRepository struct {
	BaseRepository
}

func newShipmentRepository(pool DBPool) portsrepo.ShipmentRepositoryFacade {
	return &shipmentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ShipmentRepositoryFacade = (*shipmentRepository)(nil)

func shipmentValues(s domain.Shipment) []any {
	return append([]any{s.ShipmentID, s.UserID, s.SaleID, s.ExternalOrderID, s.Carrier, s.TrackingCode,
		s.Status, s.Address}, auditValues(s.AuditFields)...)
}

func (r *shipmentRepository) Create(ctx context.Context, scope domain.TenantScope, s domain.Shipment) error {
	return insertScoped(ctx, r.Pool, shipmentTable, scope, shipmentValues(s))
}

func (r *shipmentRepository) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*domain.Shipment, error) {
	return findScoped[domain.Shipment](ctx, r.Pool, shipmentTable, scope, id)
}

func (r *shipmentRepository) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[domain.Shipment], error) {
	return listScoped[domain.Shipment](ctx, r.Pool, shipmentTable, scope, params)
}

func (r *shipmentRepository) Update(ctx context.Context, scope domain.TenantScope, s domain.Shipment) error {
	return updateScoped(ctx, r.Pool, shipmentTable, scope, s.ShipmentID,
		[]string{"sale_id", "carrier", "tracking_code", "status", "address", "last_updated_at", "last_updated_by"},
		[]any{s.SaleID, s.Carrier, s.TrackingCode, s.Status, s.Address, s.LastUpdatedAt, s.LastUpdatedBy})
}

func (r *shipmentRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, shipmentID string, status domain.ShipmentStatus, trackingCode string, at time.Time) error {
	cols := []string{"status", "last_updated_at", "last_updated_by"}
	vals := []any{status, at, scope.ActorID}
	if trackingCode != "" {
		cols = append(cols, "tracking_code")
		vals = append(vals, trackingCode)
	}
	return updateScoped(ctx, r.Pool, shipmentTable, scope, shipmentID, cols, vals)
}

func (r *shipmentRepository) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return deleteScoped(ctx, r.Pool, shipmentTable, scope, id)
}

func (r *shipmentRepository) MarkOrderShipped(ctx context.Context, scope domain.TenantScope, externalOrderID, trackingCode string, at time.Time) (int64, error) {
	if !scope.Valid() {
		return 0, errMissingTenant()
	}
	// Delivered and cancelled shipments are final. An empty code keeps the stored one.
	query := `UPDATE shipments SET status = 'SHIPPED', tracking_code = COALESCE(NULLIF($1::text, ''), tracking_code),
		last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND external_order_id = $5
		AND (status = 'PENDING' OR (status = 'SHIPPED' AND $1::text <> '' AND tracking_code IS DISTINCT FROM $1::text))`
	tag, err := r.Pool.Exec(ctx, query, trackingCode, at, scope.ActorID, scope.TenantID, externalOrderID)
	if err != nil {
		return 0, mapError(err, shipmentTable.entity)
	}
	return tag.RowsAffected(), nil
}
