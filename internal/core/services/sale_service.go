package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const salesView = "sales"

type saleService struct {
	*entityService[domain.Sale, dto.SaleRequest]
	sales     portsrepo.SaleRepositoryFacade
	customers portsrepo.CustomerRepositoryFacade
	products  portsrepo.ProductRepositoryFacade
	refs      lineRefs
}

// NewSaleService creates the point-of-sale service.
func NewSaleService(
	tenants portssvc.TenantResolver,
	repos portsrepo.RepositoryProvider,
	opts ...ServiceOption,
) portssvc.SaleSvcFacade {
	s := &saleService{
		entityService: &entityService[domain.Sale, dto.SaleRequest]{
			BaseService: newBaseService(tenants, opts...),
			entity:      salesView,
			repo:        repos.SaleRepo,
			idOf:        func(sale *domain.Sale) string { return sale.SaleID },
		},
		sales:     repos.SaleRepo,
		customers: repos.CustomerRepo,
		products:  repos.ProductRepo,
		refs:      lineRefs{products: repos.ProductRepo, offerings: repos.OfferingRepo},
	}
	s.build = s.buildSale
	return s
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

func (s *saleService) buildSale(ctx context.Context, tenant domain.TenantInfo, req dto.SaleRequest, existing *domain.Sale) (domain.Sale, error) {
	if existing != nil && existing.Status != domain.SalePending {
		return domain.Sale{}, apperrors.NewValidationFailedError("only pending sales can be edited")
	}
	if err := requireInTenant(ctx, "customerID", req.CustomerID, existsIn[domain.Customer](s.customers, tenant.Scope())); err != nil {
		return domain.Sale{}, err
	}
	if err := s.refs.check(ctx, tenant.Scope(), req.Items); err != nil {
		return domain.Sale{}, err
	}

	now := s.now()
	var sale domain.Sale
	if existing == nil {
		sale = domain.Sale{
			SaleID:      s.newID(),
			UserID:      tenant.TenantID,
			Status:      domain.SalePending,
			Channel:     domain.ChannelPOS,
			SoldAt:      now,
			AuditFields: domain.NewAuditFields(tenant.UserID, now),
		}
	} else {
		sale = *existing
		sale.Touch(tenant.UserID, now)
	}
	if req.SoldAt != nil {
		sale.SoldAt = req.SoldAt.UTC()
	}
	sale.CustomerID = req.CustomerID
	sale.PaymentMethod = req.PaymentMethod
	sale.Notes = req.Notes
	sale.Items = dto.ToLineItems(req.Items, s.newID)
	sale.Recalculate()
	return sale, nil
}

// Complete closes a pending sale. The status change and a paid income for the
// sale total are written together. Sold products are then taken out of stock;
// a product short on stock is logged and left untouched.
func (s *saleService) Complete(ctx context.Context, saleID string) (*domain.Sale, error) {
	tenant, sale, err := s.loadForTransition(ctx, saleID, domain.SaleCompleted)
	if err != nil {
		return nil, err
	}

	now := s.now()
	saleRef := sale.SaleID
	income := domain.Transaction{
		TransactionID:   s.newID(),
		UserID:          tenant.TenantID,
		Type:            domain.Income,
		Description:     fmt.Sprintf("Sale %s", shortID(sale.SaleID)),
		Amount:          sale.Total,
		Status:          domain.TransactionPaid,
		DueDate:         now,
		PaidAt:          &now,
		CustomerID:      sale.CustomerID,
		SaleID:          &saleRef,
		ExternalOrderID: sale.ExternalOrderID,
		AuditFields:     domain.NewAuditFields(tenant.UserID, now),
	}
	completed, err := s.sales.Complete(ctx, tenant.Scope(), saleID, income, now)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to complete sale", slog.String("sale_id", saleID))
	}
	if !completed {
		return nil, apperrors.NewValidationFailedError("sale is no longer pending")
	}
	s.markTransitioned(ctx, tenant, sale, domain.SaleCompleted, now)
	s.invalidate(ctx, tenant.TenantID, transactionsView)

	var touched []string
	for _, item := range sale.Items {
		if item.ProductID == nil {
			continue
		}
		qty := int(item.Quantity.Ceil().IntPart())
		if _, err := s.products.AdjustStock(ctx, tenant.Scope(), *item.ProductID, -qty, now); err != nil {
			s.LogError(ctx, err, "Stock not deducted for completed sale",
				slog.String("sale_id", saleID),
				slog.String("product_id", *item.ProductID))
			continue
		}
		touched = append(touched, *item.ProductID)
	}
	if len(touched) > 0 {
		s.invalidate(ctx, tenant.TenantID, productsView, touched...)
	}
	return sale, nil
}

// Cancel moves a pending sale to CANCELLED with a conditional update so it
// cannot race a completion.
func (s *saleService) Cancel(ctx context.Context, saleID string) (*domain.Sale, error) {
	tenant, sale, err := s.loadForTransition(ctx, saleID, domain.SaleCancelled)
	if err != nil {
		return nil, err
	}
	now := s.now()
	changed, err := s.sales.UpdateStatus(ctx, tenant.Scope(), saleID, domain.SalePending, domain.SaleCancelled, now)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to update sale status", slog.String("sale_id", saleID))
	}
	if !changed {
		return nil, apperrors.NewValidationFailedError("sale is no longer pending")
	}
	s.markTransitioned(ctx, tenant, sale, domain.SaleCancelled, now)
	return sale, nil
}

func (s *saleService) loadForTransition(ctx context.Context, saleID string, next domain.SaleStatus) (domain.TenantInfo, *domain.Sale, error) {
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return tenant, nil, err
	}
	sale, err := s.sales.FindByID(ctx, tenant.Scope(), saleID)
	if err != nil {
		return tenant, nil, s.fail(ctx, err, "Failed to load sale", slog.String("sale_id", saleID))
	}
	if !sale.CanTransitionTo(next) {
		return tenant, nil, apperrors.NewValidationFailedError(fmt.Sprintf("sale is %s and cannot become %s", sale.Status, next))
	}
	return tenant, sale, nil
}

func (s *saleService) markTransitioned(ctx context.Context, tenant domain.TenantInfo, sale *domain.Sale, next domain.SaleStatus, at time.Time) {
	sale.Status = next
	sale.Touch(tenant.UserID, at)
	s.invalidate(ctx, tenant.TenantID, salesView, sale.SaleID)
	s.LogInfo(ctx, "Sale status changed", slog.String("sale_id", sale.SaleID), slog.String("status", string(next)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
