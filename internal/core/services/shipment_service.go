package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const shipmentsView = "shipments"

type shipmentService struct {
	*entityService[domain.Shipment, dto.ShipmentRequest]
	shipments portsrepo.ShipmentRepositoryFacade
	sales     portsrepo.SaleRepositoryFacade
}

// NewShipmentService creates the logistics service.
func NewShipmentService(
	tenants portssvc.TenantResolver,
	repo portsrepo.ShipmentRepositoryFacade,
	sales portsrepo.SaleRepositoryFacade,
	opts ...ServiceOption,
) portssvc.ShipmentSvcFacade {
	s := &shipmentService{
		entityService: &entityService[domain.Shipment, dto.ShipmentRequest]{
			BaseService: newBaseService(tenants, opts...),
			entity:      shipmentsView,
			repo:        repo,
			idOf:        func(sh *domain.Shipment) string { return sh.ShipmentID },
		},
		shipments: repo,
		sales:     sales,
	}
	s.build = s.buildShipment
	return s
}

var _ portssvc.ShipmentSvcFacade = (*shipmentService)(nil)

func (s *shipmentService) buildShipment(ctx context.Context, tenant domain.TenantInfo, req dto.ShipmentRequest, existing *domain.Shipment) (domain.Shipment, error) {
	if err := requireInTenant(ctx, "saleID", req.SaleID, existsIn[domain.Sale](s.sales, tenant.Scope())); err != nil {
		return domain.Shipment{}, err
	}

	now := s.now()
	var sh domain.Shipment
	if existing == nil {
		sh = domain.Shipment{
			ShipmentID:  s.newID(),
			UserID:      tenant.TenantID,
			Status:      domain.ShipmentPending,
			AuditFields: domain.NewAuditFields(tenant.UserID, now),
		}
	} else {
		sh = *existing
		sh.Touch(tenant.UserID, now)
	}
	sh.SaleID = req.SaleID
	sh.Carrier = req.Carrier
	sh.TrackingCode = req.TrackingCode
	sh.Address = req.Address
	if req.Status != "" {
		sh.Status = domain.ShipmentStatus(req.Status)
	}
	return sh, nil
}

func (s *shipmentService) UpdateStatus(ctx context.Context, shipmentID string, req dto.ShipmentStatusRequest) (*domain.Shipment, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	status := domain.ShipmentStatus(req.Status)
	if err := s.shipments.UpdateStatus(ctx, tenant.Scope(), shipmentID, status, req.TrackingCode, s.now()); err != nil {
		return nil, s.fail(ctx, err, "Failed to update shipment status", slog.String("shipment_id", shipmentID))
	}
	s.invalidate(ctx, tenant.TenantID, shipmentsView, shipmentID)
	s.LogInfo(ctx, "Shipment status changed", slog.String("shipment_id", shipmentID), slog.String("status", req.Status))

	sh, err := s.shipments.FindByID(ctx, tenant.Scope(), shipmentID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reload shipment", slog.String("shipment_id", shipmentID))
	}
	return sh, nil
}
