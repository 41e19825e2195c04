package pgsql

import (
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool DBPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(dbPool),
		CategoryRepo:    newCategoryRepository(dbPool),
		SupplierRepo:    newSupplierRepository(dbPool),
		QuoteRepo:       newSupplierQuoteRepository(dbPool),
		CustomerRepo:    newCustomerRepository(dbPool),
		ProductRepo:     newProductRepository(dbPool),
		OfferingRepo:    newOfferingRepository(dbPool),
		TransactionRepo: newTransactionRepository(dbPool),
		SaleRepo:        newSaleRepository(dbPool),
		CompanyRepo:     newCompanyRepository(dbPool),
		IntegrationRepo: newIntegrationRepository(dbPool),
		ShipmentRepo:    newShipmentRepository(dbPool),
		OrderRepo:       newOrderRepository(dbPool),
	}
}
