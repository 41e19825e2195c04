package services

import (
	"context"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/dto"
)

// EntityReaderSvc reads entities of the caller's tenant.
type EntityReaderSvc[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, params domain.ListParams) (domain.Page[T], error)
}

// EntityWriterSvc mutates entities of the caller's tenant from request R.
type EntityWriterSvc[T any, R any] interface {
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id string, req R) (*T, error)
	Delete(ctx context.Context, id string) error
}

// EntitySvc is the service contract shared by every tenant-owned entity.
type EntitySvc[T any, R any] interface {
	EntityReaderSvc[T]
	EntityWriterSvc[T, R]
}

type CategorySvcFacade interface {
	EntitySvc[domain.Category, dto.CategoryRequest]
}

type SupplierSvcFacade interface {
	EntitySvc[domain.Supplier, dto.SupplierRequest]
}

type SupplierQuoteSvcFacade interface {
	EntitySvc[domain.SupplierQuote, dto.SupplierQuoteRequest]
	// ReplaceItems swaps the quote's items and recomputes its total atomically.
	ReplaceItems(ctx context.Context, quoteID string, req dto.QuoteItemsRequest) (*domain.SupplierQuote, error)
	UpdateStatus(ctx context.Context, quoteID string, req dto.QuoteStatusRequest) (*domain.SupplierQuote, error)
}

type CustomerSvcFacade interface {
	EntitySvc[domain.Customer, dto.CustomerRequest]
}

type ProductSvcFacade interface {
	EntitySvc[domain.Product, dto.ProductRequest]
	AdjustStock(ctx context.Context, productID string, req dto.AdjustStockRequest) (*domain.Product, error)
}

type ServiceOfferingSvcFacade interface {
	EntitySvc[domain.ServiceOffering, dto.ServiceOfferingRequest]
}

type TransactionSvcFacade interface {
	EntitySvc[domain.Transaction, dto.TransactionRequest]
	// MarkPaid settles a pending transaction. Settling an already paid one is a no-op.
	MarkPaid(ctx context.Context, transactionID string) (*domain.Transaction, error)
	Summary(ctx context.Context) (domain.FinancialSummary, error)
}

type SaleSvcFacade interface {
	EntitySvc[domain.Sale, dto.SaleRequest]
	// Complete closes a pending sale, books its income and takes products out of stock.
	Complete(ctx context.Context, saleID string) (*domain.Sale, error)
	Cancel(ctx context.Context, saleID string) (*domain.Sale, error)
}

type ShipmentSvcFacade interface {
	EntitySvc[domain.Shipment, dto.ShipmentRequest]
	UpdateStatus(ctx context.Context, shipmentID string, req dto.ShipmentStatusRequest) (*domain.Shipment, error)
}

// CompanySvcFacade manages the tenant's single business profile.
type CompanySvcFacade interface {
	Get(ctx context.Context) (*domain.Company, error)
	Upsert(ctx context.Context, req dto.CompanyRequest) (*domain.Company, error)
}

// IntegrationSvcFacade manages the tenant's marketplace connection.
type IntegrationSvcFacade interface {
	Get(ctx context.Context, provider domain.IntegrationProvider) (*domain.IntegrationConfig, error)
	Upsert(ctx context.Context, provider domain.IntegrationProvider, req dto.IntegrationConfigRequest) (*domain.IntegrationConfig, error)
}

// TeamSvcFacade manages the members of the caller's tenant. Administrators only.
type TeamSvcFacade interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, req dto.TeamMemberRequest) (*domain.User, error)
	UpdateRole(ctx context.Context, memberID string, req dto.TeamRoleRequest) (*domain.User, error)
	Delete(ctx context.Context, memberID string) error
}

// OperatorSvcFacade is the support surface over all tenants. Operators only.
type OperatorSvcFacade interface {
	ListTenants(ctx context.Context, params domain.ListParams) (domain.Page[domain.TenantSummary], error)
	DeleteTenant(ctx context.Context, tenantID string) error
}
