package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/marketplace"
)

const paymentStatusPaid = "paid"

type orderImportService struct {
	BaseService
	fetcher   marketplace.OrderFetcher
	orders    portsrepo.OrderImportRepository
	sales     portsrepo.SaleRepositoryFacade
	customers portsrepo.CustomerRepositoryFacade
	products  portsrepo.ProductRepositoryFacade
}

// NewOrderImportService creates the importer for marketplace orders.
func NewOrderImportService(repos portsrepo.RepositoryProvider, fetcher marketplace.OrderFetcher, opts ...ServiceOption) portssvc.OrderImporterSvc {
	return &orderImportService{
		BaseService: newBaseService(nil, opts...),
		fetcher:     fetcher,
		orders:      repos.OrderRepo,
		sales:       repos.SaleRepo,
		customers:   repos.CustomerRepo,
		products:    repos.ProductRepo,
	}
}

var _ portssvc.OrderImporterSvc = (*orderImportService)(nil)

// ImportOrder fetches the order and writes its customer, sale, receivable and
// shipment in one transaction. Importing an order twice is a no-op.
func (s *orderImportService) ImportOrder(ctx context.Context, cfg domain.IntegrationConfig, orderID string) (portssvc.WebhookOutcome, error) {
	scope := webhookScope(cfg)

	_, err := s.sales.FindByExternalOrder(ctx, scope, orderID)
	switch {
	case err == nil:
		s.LogInfo(ctx, "Order already imported", slog.String("order_id", orderID))
		return portssvc.WebhookDuplicate, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return "", s.fail(ctx, err, "Failed to look up imported order", slog.String("order_id", orderID))
	}

	order, err := s.fetcher.FetchOrder(ctx, cfg.StoreID, cfg.AccessToken, orderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch marketplace order", slog.String("order_id", orderID), slog.String("store_id", cfg.StoreID))
		return "", err
	}

	imported, err := s.buildImport(ctx, scope, cfg, orderID, order)
	if err != nil {
		return "", err
	}
	if err := s.orders.SaveImportedOrder(ctx, scope, imported); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Order imported concurrently", slog.String("order_id", orderID))
			return portssvc.WebhookDuplicate, nil
		}
		return "", s.fail(ctx, err, "Failed to save imported order", slog.String("order_id", orderID))
	}

	s.invalidate(ctx, scope.TenantID, salesView)
	s.invalidate(ctx, scope.TenantID, transactionsView)
	s.invalidate(ctx, scope.TenantID, shipmentsView)
	if imported.NewCustomer != nil {
		s.invalidate(ctx, scope.TenantID, customersView)
	}
	s.LogInfo(ctx, "Marketplace order imported",
		slog.String("order_id", orderID),
		slog.String("sale_id", imported.Sale.SaleID),
		slog.Int("items", len(imported.Sale.Items)))
	return portssvc.WebhookProcessed, nil
}

func (s *orderImportService) buildImport(ctx context.Context, scope domain.TenantScope, cfg domain.IntegrationConfig, orderID string, order *marketplace.Order) (portsrepo.ImportedOrder, error) {
	now := s.now()
	audit := domain.NewAuditFields(scope.ActorID, now)
	externalID := order.ID.String()
	if externalID == "" {
		externalID = orderID
	}
	number := order.Number.String()
	if number == "" {
		number = externalID
	}

	var out portsrepo.ImportedOrder
	customerID, err := s.matchCustomer(ctx, scope, cfg, order.Customer, audit, &out)
	if err != nil {
		return out, err
	}

	items := make([]domain.LineItem, 0, len(order.Products))
	for _, p := range order.Products {
		item := domain.LineItem{
			ItemID:      s.newID(),
			Description: p.Name,
			Quantity:    p.Quantity,
			UnitPrice:   p.Price,
		}
		if sku := strings.TrimSpace(p.SKU); sku != "" {
			product, err := s.products.FindBySKU(ctx, scope, sku)
			switch {
			case err == nil:
				item.ProductID = &product.ProductID
			case !errors.Is(err, apperrors.ErrNotFound):
				return out, s.fail(ctx, err, "Failed to match product by SKU", slog.String("sku", sku))
			}
		}
		items = append(items, item)
	}

	soldAt := order.CreatedAt.UTC()
	if soldAt.IsZero() {
		soldAt = now
	}
	out.Sale = domain.Sale{
		SaleID:          s.newID(),
		UserID:          cfg.UserID,
		CustomerID:      customerID,
		Status:          domain.SalePending,
		Channel:         domain.ChannelMarketplace,
		PaymentMethod:   order.Gateway,
		ExternalOrderID: &externalID,
		SoldAt:          soldAt,
		Notes:           fmt.Sprintf("Marketplace order #%s", number),
		Items:           items,
		AuditFields:     audit,
	}
	out.Sale.Recalculate()

	amount := order.Total
	if !amount.IsPositive() {
		amount = out.Sale.Total
	}
	saleID := out.Sale.SaleID
	out.Transaction = domain.Transaction{
		TransactionID:   s.newID(),
		UserID:          cfg.UserID,
		Type:            domain.Income,
		Description:     fmt.Sprintf("Order #%s", number),
		Amount:          amount,
		Status:          domain.TransactionPending,
		DueDate:         now,
		CustomerID:      customerID,
		SaleID:          &saleID,
		ExternalOrderID: &externalID,
		AuditFields:     audit,
	}
	if strings.EqualFold(order.PaymentStatus, paymentStatusPaid) {
		out.Transaction.Status = domain.TransactionPaid
		out.Transaction.PaidAt = &now
	}

	out.Shipment = domain.Shipment{
		ShipmentID:      s.newID(),
		UserID:          cfg.UserID,
		SaleID:          &saleID,
		ExternalOrderID: &externalID,
		Carrier:         order.ShippingOption,
		TrackingCode:    order.ShippingTrackingNumber,
		Status:          domain.ShipmentPending,
		Address:         order.ShippingAddress.String(),
		AuditFields:     audit,
	}
	return out, nil
}

// matchCustomer finds the buyer by e-mail in the tenant, or prepares a new
// customer in out. Orders without an e-mail get no customer.
func (s *orderImportService) matchCustomer(ctx context.Context, scope domain.TenantScope, cfg domain.IntegrationConfig, buyer marketplace.OrderCustomer, audit domain.AuditFields, out *portsrepo.ImportedOrder) (*string, error) {
	email := strings.ToLower(strings.TrimSpace(buyer.Email))
	if email == "" {
		return nil, nil
	}
	existing, err := s.customers.FindByEmail(ctx, scope, email)
	if err == nil {
		return &existing.CustomerID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.fail(ctx, err, "Failed to match customer")
	}
	name := strings.TrimSpace(buyer.Name)
	if name == "" {
		name = email
	}
	out.NewCustomer = &domain.Customer{
		CustomerID:  s.newID(),
		UserID:      cfg.UserID,
		Name:        name,
		Email:       email,
		Phone:       buyer.Phone,
		Document:    buyer.Identification,
		AuditFields: audit,
	}
	return &out.NewCustomer.CustomerID, nil
}
