package services

import (
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/SscSPs/bizdesk/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	fetcher marketplace.OrderFetcher,
	opts ...ServiceOption,
) *portssvc.ServiceContainer {
	// Identity is resolved first since every tenant-scoped service depends on it
	tenants := NewIdentityService(repos.UserRepo)

	container := &portssvc.ServiceContainer{
		Tenants: tenants,

		Auth:        NewAuthService(tenants, repos.UserRepo, opts...),
		Token:       NewTokenService(cfg, repos.UserRepo, opts...),
		GoogleOAuth: NewGoogleOAuthHandlerService(cfg),

		Category:    NewCategoryService(tenants, repos.CategoryRepo, opts...),
		Supplier:    NewSupplierService(tenants, repos.SupplierRepo, opts...),
		Quote:       NewSupplierQuoteService(tenants, repos.QuoteRepo, repos.SupplierRepo, repos.ProductRepo, opts...),
		Customer:    NewCustomerService(tenants, repos.CustomerRepo, opts...),
		Product:     NewProductService(tenants, repos.ProductRepo, repos.CategoryRepo, opts...),
		Offering:    NewServiceOfferingService(tenants, repos.OfferingRepo, repos.CategoryRepo, opts...),
		Transaction: NewTransactionService(tenants, repos, opts...),
		Sale:        NewSaleService(tenants, repos, opts...),
		Shipment:    NewShipmentService(tenants, repos.ShipmentRepo, repos.SaleRepo, opts...),
		Company:     NewCompanyService(tenants, repos.CompanyRepo, opts...),
		Integration: NewIntegrationService(tenants, repos.IntegrationRepo, opts...),
		Team:        NewTeamService(tenants, repos.UserRepo, opts...),
		Operator:    NewOperatorService(tenants, repos.UserRepo, opts...),
	}

	importer := NewOrderImportService(repos, fetcher, opts...)
	container.Webhook = NewWebhookService(repos, importer, opts...)

	return container
}
