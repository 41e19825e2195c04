package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/core/services"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WebhookServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	cfg          domain.IntegrationConfig
	scope        domain.TenantScope
	integrations *MockIntegrationRepository
	transactions *MockTransactionRepository
	shipments    *MockShipmentRepository
	sales        *MockSaleRepository
	customers    *MockCustomerRepository
	products     *MockProductRepository
	orders       *MockOrderImportRepository
	fetcher      *MockOrderFetcher
	service      portssvc.WebhookSvcFacade
}

func (suite *WebhookServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.cfg = domain.IntegrationConfig{
		IntegrationID: "integration-1",
		UserID:        tenantA,
		Provider:      domain.ProviderNuvemshop,
		StoreID:       "123456",
		AccessToken:   "store-token",
		SyncEnabled:   true,
	}
	suite.scope = domain.TenantScope{TenantID: tenantA, ActorID: "webhook:nuvemshop"}
	suite.integrations = new(MockIntegrationRepository)
	suite.transactions = new(MockTransactionRepository)
	suite.shipments = new(MockShipmentRepository)
	suite.sales = new(MockSaleRepository)
	suite.customers = new(MockCustomerRepository)
	suite.products = new(MockProductRepository)
	suite.orders = new(MockOrderImportRepository)
	suite.fetcher = new(MockOrderFetcher)

	repos := portsrepo.RepositoryProvider{
		IntegrationRepo: suite.integrations,
		TransactionRepo: suite.transactions,
		ShipmentRepo:    suite.shipments,
		SaleRepo:        suite.sales,
		CustomerRepo:    suite.customers,
		ProductRepo:     suite.products,
		OrderRepo:       suite.orders,
	}
	opts := []services.ServiceOption{services.WithClock(fixedClock), services.WithIDGenerator(sequentialIDs())}
	importer := services.NewOrderImportService(repos, suite.fetcher, opts...)
	suite.service = services.NewWebhookService(repos, importer, opts...)
}

func (suite *WebhookServiceTestSuite) matchStore() {
	suite.integrations.On("FindEnabledByStore", suite.ctx, domain.ProviderNuvemshop, "123456").Return(&suite.cfg, nil)
}

func (suite *WebhookServiceTestSuite) assertNoMutations() {
	suite.transactions.AssertNotCalled(suite.T(), "MarkOrderPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.shipments.AssertNotCalled(suite.T(), "MarkOrderShipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.orders.AssertNotCalled(suite.T(), "SaveImportedOrder", mock.Anything, mock.Anything, mock.Anything)
	suite.fetcher.AssertNotCalled(suite.T(), "FetchOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WebhookServiceTestSuite) TestMissingEvent() {
	_, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{StoreID: "123456", ID: "1"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.integrations.AssertNotCalled(suite.T(), "FindEnabledByStore", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WebhookServiceTestSuite) TestMissingStoreID() {
	_, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{Event: marketplace.EventOrderPaid, ID: "1"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WebhookServiceTestSuite) TestUnknownStoreIsUnmatched() {
	suite.integrations.On("FindEnabledByStore", suite.ctx, domain.ProviderNuvemshop, "999").
		Return(nil, apperrors.NewNotFoundError("integration not found")).Once()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderPaid, StoreID: "999", ID: "555",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookUnmatched, outcome)
	suite.assertNoMutations()
}

func (suite *WebhookServiceTestSuite) TestUnknownEventIsIgnored() {
	suite.matchStore()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: "product/updated", StoreID: "123456", ID: "77",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookIgnored, outcome)
	suite.assertNoMutations()
}

func (suite *WebhookServiceTestSuite) TestOrderPaid_ProcessedThenDuplicate() {
	suite.matchStore()
	suite.transactions.On("MarkOrderPaid", suite.ctx, suite.scope, "555", fixedNow).Return(int64(1), nil).Once()
	suite.transactions.On("MarkOrderPaid", suite.ctx, suite.scope, "555", fixedNow).Return(int64(0), nil).Once()
	ev := marketplace.WebhookEvent{Event: marketplace.EventOrderPaid, StoreID: "123456", ID: "555"}

	first, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, ev)
	suite.Require().NoError(err)
	second, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, ev)
	suite.Require().NoError(err)

	suite.Equal(portssvc.WebhookProcessed, first)
	suite.Equal(portssvc.WebhookDuplicate, second)
	suite.transactions.AssertExpectations(suite.T())
}

func (suite *WebhookServiceTestSuite) TestOrderPaid_StorageFailureIsReturned() {
	suite.matchStore()
	suite.transactions.On("MarkOrderPaid", suite.ctx, suite.scope, "555", fixedNow).
		Return(int64(0), apperrors.NewPersistenceError("failed to update transactions", errors.New("conn reset"))).Once()

	_, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderPaid, StoreID: "123456", ID: "555",
	})

	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *WebhookServiceTestSuite) TestOrderFulfilled_TrimsTrackingCode() {
	suite.matchStore()
	suite.shipments.On("MarkOrderShipped", suite.ctx, suite.scope, "555", "BR123", fixedNow).Return(int64(1), nil).Once()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderFulfilled, StoreID: "123456", ID: "555", ShippingTrackingNumber: "  BR123 ",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookProcessed, outcome)
	suite.shipments.AssertExpectations(suite.T())
}

func (suite *WebhookServiceTestSuite) TestOrderCreated_AlreadyImported() {
	suite.matchStore()
	suite.sales.On("FindByExternalOrder", suite.ctx, suite.scope, "555").
		Return(&domain.Sale{SaleID: "sale-1"}, nil).Once()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderCreated, StoreID: "123456", ID: "555",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookDuplicate, outcome)
	suite.assertNoMutations()
}

func (suite *WebhookServiceTestSuite) TestOrderCreated_ImportsOrder() {
	suite.matchStore()
	sku := "MUG-01"
	order := &marketplace.Order{
		ID:            "555",
		Number:        "1042",
		Total:         dec("57.80"),
		Gateway:       "pix",
		PaymentStatus: "paid",
		CreatedAt:     time.Date(2026, 3, 13, 9, 30, 0, 0, time.UTC),
		Customer:      marketplace.OrderCustomer{Name: "Joana", Email: "Joana@Mail.Test"},
		Products: []marketplace.OrderProduct{
			{Name: "Mug", SKU: sku, Quantity: dec("2"), Price: dec("19.90")},
			{Name: "Sticker", Quantity: dec("1"), Price: dec("3")},
		},
		ShippingOption:  "Correios",
		ShippingAddress: marketplace.ShippingAddress{Address: "Rua A", Number: "10", City: "Recife"},
	}

	suite.sales.On("FindByExternalOrder", suite.ctx, suite.scope, "555").
		Return(nil, apperrors.NewNotFoundError("sale not found")).Once()
	suite.fetcher.On("FetchOrder", suite.ctx, "123456", "store-token", "555").Return(order, nil).Once()
	suite.customers.On("FindByEmail", suite.ctx, suite.scope, "joana@mail.test").
		Return(nil, apperrors.NewNotFoundError("customer not found")).Once()
	suite.products.On("FindBySKU", suite.ctx, suite.scope, sku).
		Return(&domain.Product{ProductID: "product-mug"}, nil).Once()
	suite.orders.On("SaveImportedOrder", suite.ctx, suite.scope, mock.MatchedBy(func(o portsrepo.ImportedOrder) bool {
		return o.NewCustomer != nil && o.NewCustomer.Email == "joana@mail.test" &&
			o.Sale.Channel == domain.ChannelMarketplace &&
			o.Sale.Notes == "Marketplace order #1042" &&
			*o.Sale.ExternalOrderID == "555" &&
			o.Sale.Total.Equal(dec("42.80")) &&
			*o.Sale.Items[0].ProductID == "product-mug" &&
			o.Sale.Items[1].ProductID == nil &&
			o.Transaction.Description == "Order #1042" &&
			o.Transaction.Amount.Equal(dec("57.80")) &&
			o.Transaction.Status == domain.TransactionPaid &&
			o.Shipment.Address == "Rua A 10, Recife" &&
			o.Sale.CreatedBy == "webhook:nuvemshop"
	})).Return(nil).Once()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderCreated, StoreID: "123456", ID: "555",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookProcessed, outcome)
	suite.orders.AssertExpectations(suite.T())
	suite.fetcher.AssertExpectations(suite.T())
}

func (suite *WebhookServiceTestSuite) TestOrderCreated_ConcurrentImportIsDuplicate() {
	suite.matchStore()
	suite.sales.On("FindByExternalOrder", suite.ctx, suite.scope, "555").
		Return(nil, apperrors.NewNotFoundError("sale not found")).Once()
	suite.fetcher.On("FetchOrder", suite.ctx, "123456", "store-token", "555").
		Return(&marketplace.Order{ID: "555", Number: "1042", Total: dec("10")}, nil).Once()
	suite.orders.On("SaveImportedOrder", suite.ctx, suite.scope, mock.AnythingOfType("repositories.ImportedOrder")).
		Return(apperrors.NewConflictError("order already imported")).Once()

	outcome, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderCreated, StoreID: "123456", ID: "555",
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.WebhookDuplicate, outcome)
}

func (suite *WebhookServiceTestSuite) TestOrderCreated_FetchFailureIsReturned() {
	suite.matchStore()
	suite.sales.On("FindByExternalOrder", suite.ctx, suite.scope, "555").
		Return(nil, apperrors.NewNotFoundError("sale not found")).Once()
	suite.fetcher.On("FetchOrder", suite.ctx, "123456", "store-token", "555").
		Return(nil, errors.New("marketplace unavailable")).Once()

	_, err := suite.service.HandleEvent(suite.ctx, domain.ProviderNuvemshop, marketplace.WebhookEvent{
		Event: marketplace.EventOrderCreated, StoreID: "123456", ID: "555",
	})

	suite.Error(err)
	suite.orders.AssertNotCalled(suite.T(), "SaveImportedOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookServiceTestSuite))
}
