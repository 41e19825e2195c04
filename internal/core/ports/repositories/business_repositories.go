package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
)

type CategoryRepositoryFacade interface {
	ScopedRepository[domain.Category]
	ReferenceCounter
}

type SupplierRepositoryFacade interface {
	ScopedRepository[domain.Supplier]
	ReferenceCounter
}

// SupplierQuoteRepositoryFacade persists quotes together with their items.
// FindByID loads items; Create, Update and ReplaceItems write quote and items atomically.
type SupplierQuoteRepositoryFacade interface {
	ScopedRepository[domain.SupplierQuote]
	ReplaceItems(ctx context.Context, scope domain.TenantScope, quote domain.SupplierQuote) error
	UpdateStatus(ctx context.Context, scope domain.TenantScope, quoteID string, status domain.QuoteStatus, at time.Time) error
}

type CustomerRepositoryFacade interface {
	ScopedRepository[domain.Customer]
	ReferenceCounter
	FindByEmail(ctx context.Context, scope domain.TenantScope, email string) (*domain.Customer, error)
}

type ProductRepositoryFacade interface {
	ScopedRepository[domain.Product]
	ReferenceCounter
	FindBySKU(ctx context.Context, scope domain.TenantScope, sku string) (*domain.Product, error)

	// AdjustStock applies delta and returns the new stock. It fails with a
	// validation error instead of letting stock go negative.
	AdjustStock(ctx context.Context, scope domain.TenantScope, productID string, delta int, at time.Time) (int, error)
}

type ServiceOfferingRepositoryFacade interface {
	ScopedRepository[domain.ServiceOffering]
}

type TransactionRepositoryFacade interface {
	ScopedRepository[domain.Transaction]

	// MarkPaid moves a PENDING transaction to PAID. It reports whether a row changed.
	MarkPaid(ctx context.Context, scope domain.TenantScope, transactionID string, paidAt time.Time) (bool, error)

	// MarkOrderPaid moves the tenant's PENDING transactions for a marketplace
	// order to PAID and returns how many rows changed.
	MarkOrderPaid(ctx context.Context, scope domain.TenantScope, externalOrderID string, paidAt time.Time) (int64, error)

	Summary(ctx context.Context, scope domain.TenantScope) (domain.FinancialSummary, error)
}

// SaleRepositoryFacade persists sales with their items. Update replaces items atomically.
type SaleRepositoryFacade interface {
	ScopedRepository[domain.Sale]
	FindByExternalOrder(ctx context.Context, scope domain.TenantScope, externalOrderID string) (*domain.Sale, error)

	// UpdateStatus changes status only when the current status equals from.
	UpdateStatus(ctx context.Context, scope domain.TenantScope, saleID string, from, to domain.SaleStatus, at time.Time) (bool, error)
	// Complete moves a pending sale to COMPLETED and books income atomically.
	// It reports false and writes nothing when the sale is no longer pending.
	Complete(ctx context.Context, scope domain.TenantScope, saleID string, income domain.Transaction, at time.Time) (bool, error)
}

type CompanyRepositoryFacade interface {
	Find(ctx context.Context, scope domain.TenantScope) (*domain.Company, error)
	Upsert(ctx context.Context, scope domain.TenantScope, company domain.Company) error
}

type IntegrationConfigRepositoryFacade interface {
	Find(ctx context.Context, scope domain.TenantScope, provider domain.IntegrationProvider) (*domain.IntegrationConfig, error)
	Upsert(ctx context.Context, scope domain.TenantScope, cfg domain.IntegrationConfig) error

	// FindEnabledByStore is the unscoped reverse lookup used to attribute
	// inbound marketplace events to a tenant.
	FindEnabledByStore(ctx context.Context, provider domain.IntegrationProvider, storeID string) (*domain.IntegrationConfig, error)
}

type ShipmentRepositoryFacade interface {
	ScopedRepository[domain.Shipment]
	UpdateStatus(ctx context.Context, scope domain.TenantScope, shipmentID string, status domain.ShipmentStatus, trackingCode string, at time.Time) error

	// MarkOrderShipped sets SHIPPED and the tracking code on the order's shipment
	// unless it is already shipped with that code. It returns the rows changed.
	MarkOrderShipped(ctx context.Context, scope domain.TenantScope, externalOrderID, trackingCode string, at time.Time) (int64, error)
}

// ImportedOrder is everything a marketplace order creates in one tenant.
type ImportedOrder struct {
	NewCustomer *domain.Customer
	Sale        domain.Sale
	Transaction domain.Transaction
	Shipment    domain.Shipment
}

// OrderImportRepository writes an imported order atomically. A second import
// of the same external order fails with a duplicate error and changes nothing.
type OrderImportRepository interface {
	SaveImportedOrder(ctx context.Context, scope domain.TenantScope, order ImportedOrder) error
}
