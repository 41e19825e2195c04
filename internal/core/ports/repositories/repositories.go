package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo        UserRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	SupplierRepo    SupplierRepositoryFacade
	QuoteRepo       SupplierQuoteRepositoryFacade
	CustomerRepo    CustomerRepositoryFacade
	ProductRepo     ProductRepositoryFacade
	OfferingRepo    ServiceOfferingRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	SaleRepo        SaleRepositoryFacade
	CompanyRepo     CompanyRepositoryFacade
	IntegrationRepo IntegrationConfigRepositoryFacade
	ShipmentRepo    ShipmentRepositoryFacade
	OrderRepo       OrderImportRepository
}
