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
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type CommerceServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	scope        domain.TenantScope
	sales        *MockSaleRepository
	quotes       *MockQuoteRepository
	suppliers    *MockSupplierRepository
	products     *MockProductRepository
	offerings    *MockOfferingRepository
	customers    *MockCustomerRepository
	categories   *MockCategoryRepository
	transactions *MockTransactionRepository
}

func (suite *CommerceServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.scope = domain.TenantScope{TenantID: tenantA, ActorID: "seller-1"}
	suite.sales = new(MockSaleRepository)
	suite.quotes = new(MockQuoteRepository)
	suite.suppliers = new(MockSupplierRepository)
	suite.products = new(MockProductRepository)
	suite.offerings = new(MockOfferingRepository)
	suite.customers = new(MockCustomerRepository)
	suite.categories = new(MockCategoryRepository)
	suite.transactions = new(MockTransactionRepository)
}

func (suite *CommerceServiceTestSuite) repos() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SaleRepo:        suite.sales,
		QuoteRepo:       suite.quotes,
		SupplierRepo:    suite.suppliers,
		ProductRepo:     suite.products,
		OfferingRepo:    suite.offerings,
		CustomerRepo:    suite.customers,
		CategoryRepo:    suite.categories,
		TransactionRepo: suite.transactions,
	}
}

func (suite *CommerceServiceTestSuite) saleService() portssvc.SaleSvcFacade {
	return services.NewSaleService(memberOf(tenantA, "seller-1", domain.RoleSalesperson), suite.repos(),
		services.WithClock(fixedClock), services.WithIDGenerator(sequentialIDs()))
}

func (suite *CommerceServiceTestSuite) TestCreateSale_TotalsComputedFromItems() {
	req := dto.SaleRequest{
		PaymentMethod: "cash",
		Items: []dto.LineItemRequest{
			{Description: "Coffee beans", Quantity: dec("2"), UnitPrice: dec("10.50"), Total: dec("999")},
			{Description: "Filter", Quantity: dec("3"), UnitPrice: dec("1.25")},
		},
	}

	suite.sales.On("Create", suite.ctx, suite.scope, mock.MatchedBy(func(s domain.Sale) bool {
		return s.Total.Equal(dec("24.75")) && s.Status == domain.SalePending && s.Channel == domain.ChannelPOS
	})).Return(nil).Once()

	sale, err := suite.saleService().Create(suite.ctx, req)

	suite.Require().NoError(err)
	suite.True(sale.Items[0].Total.Equal(dec("21.00")))
	suite.True(sale.Items[1].Total.Equal(dec("3.75")))
	suite.True(sale.Total.Equal(dec("24.75")))
	suite.Equal(fixedNow, sale.SoldAt)
	suite.sales.AssertExpectations(suite.T())
}

func (suite *CommerceServiceTestSuite) TestCreateSale_ProductFromOtherTenant() {
	otherProduct := "bbbbbbbb-0000-0000-0000-000000000001"
	req := dto.SaleRequest{
		PaymentMethod: "card",
		Items: []dto.LineItemRequest{
			{ProductID: &otherProduct, Description: "Mug", Quantity: dec("1"), UnitPrice: dec("8")},
		},
	}

	suite.products.On("FindByID", suite.ctx, suite.scope, otherProduct).
		Return(nil, apperrors.NewNotFoundError("product not found")).Once()

	_, err := suite.saleService().Create(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("does not exist", appErr.Fields["items[0].productID"])
	suite.sales.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestCompleteSale_BooksIncomeAndDeductsStock() {
	productID := "cccccccc-0000-0000-0000-000000000001"
	pending := &domain.Sale{
		SaleID:  "dddddddd-0000-0000-0000-000000000001",
		UserID:  tenantA,
		Status:  domain.SalePending,
		Channel: domain.ChannelPOS,
		Total:   dec("30.00"),
		Items: []domain.LineItem{
			{ItemID: "i1", ProductID: &productID, Description: "Bulk rice", Quantity: dec("1.5"), UnitPrice: dec("20")},
			{ItemID: "i2", Description: "Gift wrap", Quantity: dec("1"), UnitPrice: dec("0")},
		},
	}

	suite.sales.On("FindByID", suite.ctx, suite.scope, pending.SaleID).Return(pending, nil).Once()
	suite.sales.On("Complete", suite.ctx, suite.scope, pending.SaleID, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Income &&
			t.Status == domain.TransactionPaid &&
			t.Amount.Equal(dec("30.00")) &&
			t.SaleID != nil && *t.SaleID == pending.SaleID &&
			t.Description == "Sale dddddddd"
	}), fixedNow).Return(true, nil).Once()
	suite.products.On("AdjustStock", suite.ctx, suite.scope, productID, -2, fixedNow).Return(8, nil).Once()

	sale, err := suite.saleService().Complete(suite.ctx, pending.SaleID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, sale.Status)
	suite.sales.AssertExpectations(suite.T())
	suite.products.AssertExpectations(suite.T())
	suite.transactions.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestCompleteSale_InsufficientStockStillCompletes() {
	productID := "cccccccc-0000-0000-0000-000000000002"
	pending := &domain.Sale{
		SaleID: "dddddddd-0000-0000-0000-000000000002",
		Status: domain.SalePending,
		Total:  dec("5"),
		Items:  []domain.LineItem{{ProductID: &productID, Quantity: dec("4"), UnitPrice: dec("1.25")}},
	}

	suite.sales.On("FindByID", suite.ctx, suite.scope, pending.SaleID).Return(pending, nil).Once()
	suite.sales.On("Complete", suite.ctx, suite.scope, pending.SaleID, mock.AnythingOfType("domain.Transaction"), fixedNow).
		Return(true, nil).Once()
	suite.products.On("AdjustStock", suite.ctx, suite.scope, productID, -4, fixedNow).
		Return(0, apperrors.NewValidationFailedError("insufficient stock")).Once()

	sale, err := suite.saleService().Complete(suite.ctx, pending.SaleID)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, sale.Status)
}

func (suite *CommerceServiceTestSuite) TestCompleteSale_NotPending() {
	done := &domain.Sale{SaleID: "dddddddd-0000-0000-0000-000000000003", Status: domain.SaleCancelled}
	suite.sales.On("FindByID", suite.ctx, suite.scope, done.SaleID).Return(done, nil).Once()

	_, err := suite.saleService().Complete(suite.ctx, done.SaleID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.sales.AssertNotCalled(suite.T(), "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestCompleteSale_LostRace() {
	pending := &domain.Sale{SaleID: "dddddddd-0000-0000-0000-000000000004", Status: domain.SalePending}
	suite.sales.On("FindByID", suite.ctx, suite.scope, pending.SaleID).Return(pending, nil).Once()
	suite.sales.On("Complete", suite.ctx, suite.scope, pending.SaleID, mock.AnythingOfType("domain.Transaction"), fixedNow).
		Return(false, nil).Once()

	_, err := suite.saleService().Complete(suite.ctx, pending.SaleID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.products.AssertNotCalled(suite.T(), "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestCompleteSale_IncomeFailureCanBeRetried() {
	productID := "cccccccc-0000-0000-0000-000000000005"
	pending := &domain.Sale{
		SaleID: "dddddddd-0000-0000-0000-000000000005",
		Status: domain.SalePending,
		Total:  dec("12"),
		Items:  []domain.LineItem{{ProductID: &productID, Quantity: dec("2"), UnitPrice: dec("6")}},
	}
	// The repository rolls back on failure, so the sale is still pending on the next load.
	first, second := *pending, *pending
	suite.sales.On("FindByID", suite.ctx, suite.scope, pending.SaleID).Return(&first, nil).Once()
	suite.sales.On("FindByID", suite.ctx, suite.scope, pending.SaleID).Return(&second, nil).Once()
	suite.sales.On("Complete", suite.ctx, suite.scope, pending.SaleID, mock.AnythingOfType("domain.Transaction"), fixedNow).
		Return(false, apperrors.NewPersistenceError("failed to insert transaction", errors.New("db down"))).Once()
	suite.sales.On("Complete", suite.ctx, suite.scope, pending.SaleID, mock.AnythingOfType("domain.Transaction"), fixedNow).
		Return(true, nil).Once()
	suite.products.On("AdjustStock", suite.ctx, suite.scope, productID, -2, fixedNow).Return(3, nil).Once()

	_, err := suite.saleService().Complete(suite.ctx, pending.SaleID)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.products.AssertNotCalled(suite.T(), "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	sale, err := suite.saleService().Complete(suite.ctx, pending.SaleID)
	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, sale.Status)
	suite.sales.AssertExpectations(suite.T())
	suite.products.AssertExpectations(suite.T())
}

func (suite *CommerceServiceTestSuite) quoteService() portssvc.SupplierQuoteSvcFacade {
	return services.NewSupplierQuoteService(memberOf(tenantA, "seller-1", domain.RoleManager),
		suite.quotes, suite.suppliers, suite.products,
		services.WithClock(fixedClock), services.WithIDGenerator(sequentialIDs()))
}

func (suite *CommerceServiceTestSuite) TestReplaceQuoteItems_RecomputesTotal() {
	existing := &domain.SupplierQuote{
		QuoteID:    "eeeeeeee-0000-0000-0000-000000000001",
		UserID:     tenantA,
		SupplierID: "ffffffff-0000-0000-0000-000000000001",
		Status:     domain.QuoteDraft,
		Total:      dec("100"),
		Items:      []domain.LineItem{{ItemID: "old", Description: "Old", Quantity: dec("1"), UnitPrice: dec("100"), Total: dec("100")}},
	}
	req := dto.QuoteItemsRequest{Items: []dto.LineItemRequest{
		{Description: "Paper A4", Quantity: dec("10"), UnitPrice: dec("4.20"), Total: dec("1")},
		{Description: "Toner", Quantity: dec("1"), UnitPrice: dec("89.90")},
	}}

	suite.quotes.On("FindByID", suite.ctx, suite.scope, existing.QuoteID).Return(existing, nil).Once()
	suite.quotes.On("ReplaceItems", suite.ctx, suite.scope, mock.MatchedBy(func(q domain.SupplierQuote) bool {
		return len(q.Items) == 2 && q.Total.Equal(dec("131.90"))
	})).Return(nil).Once()

	quote, err := suite.quoteService().ReplaceItems(suite.ctx, existing.QuoteID, req)

	suite.Require().NoError(err)
	suite.True(quote.Total.Equal(dec("131.90")))
	suite.True(quote.Items[0].Total.Equal(dec("42.00")))
	suite.quotes.AssertExpectations(suite.T())
}

func (suite *CommerceServiceTestSuite) quoteForUpdate() *domain.SupplierQuote {
	return &domain.SupplierQuote{
		QuoteID:    "eeeeeeee-0000-0000-0000-000000000002",
		UserID:     tenantA,
		SupplierID: "ffffffff-0000-0000-0000-000000000003",
		Title:      "Old title",
		Status:     domain.QuoteDraft,
		Total:      dec("50"),
		Items:      []domain.LineItem{{ItemID: "old", Description: "Old", Quantity: dec("1"), UnitPrice: dec("50"), Total: dec("50")}},
	}
}

func (suite *CommerceServiceTestSuite) TestUpdateQuote_InvalidItemLeavesQuoteUntouched() {
	existing := suite.quoteForUpdate()
	foreignProduct := "bbbbbbbb-0000-0000-0000-000000000009"
	req := dto.SupplierQuoteRequest{
		SupplierID: existing.SupplierID,
		Title:      "New title",
		Items:      []dto.LineItemRequest{{ProductID: &foreignProduct, Description: "Mug", Quantity: dec("1"), UnitPrice: dec("8")}},
	}

	suite.quotes.On("FindByID", suite.ctx, suite.scope, existing.QuoteID).Return(existing, nil).Once()
	suite.suppliers.On("FindByID", suite.ctx, suite.scope, existing.SupplierID).Return(&domain.Supplier{SupplierID: existing.SupplierID}, nil).Once()
	suite.products.On("FindByID", suite.ctx, suite.scope, foreignProduct).
		Return(nil, apperrors.NewNotFoundError("product not found")).Once()

	_, err := suite.quoteService().Update(suite.ctx, existing.QuoteID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.quotes.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
	suite.quotes.AssertNotCalled(suite.T(), "ReplaceItems", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestUpdateQuote_HeaderAndItemsWrittenTogether() {
	existing := suite.quoteForUpdate()
	req := dto.SupplierQuoteRequest{
		SupplierID: existing.SupplierID,
		Title:      "New title",
		Items: []dto.LineItemRequest{
			{Description: "Paper A4", Quantity: dec("5"), UnitPrice: dec("4.20")},
		},
	}

	suite.quotes.On("FindByID", suite.ctx, suite.scope, existing.QuoteID).Return(existing, nil).Once()
	suite.suppliers.On("FindByID", suite.ctx, suite.scope, existing.SupplierID).Return(&domain.Supplier{SupplierID: existing.SupplierID}, nil).Once()
	suite.quotes.On("Update", suite.ctx, suite.scope, mock.MatchedBy(func(q domain.SupplierQuote) bool {
		return q.Title == "New title" && len(q.Items) == 1 && q.Total.Equal(dec("21.00"))
	})).Return(nil).Once()

	quote, err := suite.quoteService().Update(suite.ctx, existing.QuoteID, req)

	suite.Require().NoError(err)
	suite.True(quote.Total.Equal(dec("21.00")))
	suite.quotes.AssertExpectations(suite.T())
	suite.quotes.AssertNotCalled(suite.T(), "ReplaceItems", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) TestUpdateQuote_HeaderOnlyKeepsItems() {
	existing := suite.quoteForUpdate()
	req := dto.SupplierQuoteRequest{SupplierID: existing.SupplierID, Title: "Renamed"}

	suite.quotes.On("FindByID", suite.ctx, suite.scope, existing.QuoteID).Return(existing, nil).Once()
	suite.suppliers.On("FindByID", suite.ctx, suite.scope, existing.SupplierID).Return(&domain.Supplier{SupplierID: existing.SupplierID}, nil).Once()
	suite.quotes.On("Update", suite.ctx, suite.scope, mock.MatchedBy(func(q domain.SupplierQuote) bool {
		return q.Title == "Renamed" && len(q.Items) == 1 && q.Items[0].ItemID == "old" && q.Total.Equal(dec("50"))
	})).Return(nil).Once()

	_, err := suite.quoteService().Update(suite.ctx, existing.QuoteID, req)

	suite.Require().NoError(err)
	suite.quotes.AssertExpectations(suite.T())
}

func (suite *CommerceServiceTestSuite) TestCreateQuote_SupplierMustBelongToTenant() {
	supplierID := "ffffffff-0000-0000-0000-000000000002"
	suite.suppliers.On("FindByID", suite.ctx, suite.scope, supplierID).
		Return(nil, apperrors.NewNotFoundError("supplier not found")).Once()

	_, err := suite.quoteService().Create(suite.ctx, dto.SupplierQuoteRequest{SupplierID: supplierID, Title: "Q1 paper"})

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("does not exist", appErr.Fields["supplierID"])
	suite.quotes.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommerceServiceTestSuite) transactionService() portssvc.TransactionSvcFacade {
	return services.NewTransactionService(memberOf(tenantA, "seller-1", domain.RoleFinance), suite.repos(),
		services.WithClock(fixedClock))
}

func (suite *CommerceServiceTestSuite) TestCreateTransaction_PaidStampsPaidAt() {
	req := dto.TransactionRequest{
		Type:        "EXPENSE",
		Description: "Electricity",
		Amount:      dec("180.40"),
		Status:      "PAID",
		DueDate:     fixedNow.Add(24 * time.Hour),
	}
	suite.transactions.On("Create", suite.ctx, suite.scope, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.PaidAt != nil && t.PaidAt.Equal(fixedNow)
	})).Return(nil).Once()

	tx, err := suite.transactionService().Create(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionPaid, tx.Status)
	suite.transactions.AssertExpectations(suite.T())
}

func (suite *CommerceServiceTestSuite) TestMarkPaid_CancelledRejected() {
	id := "99999999-0000-0000-0000-000000000001"
	suite.transactions.On("MarkPaid", suite.ctx, suite.scope, id, fixedNow).Return(false, nil).Once()
	suite.transactions.On("FindByID", suite.ctx, suite.scope, id).
		Return(&domain.Transaction{TransactionID: id, Status: domain.TransactionCancelled}, nil).Once()

	_, err := suite.transactionService().MarkPaid(suite.ctx, id)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CommerceServiceTestSuite) TestMarkPaid_AlreadyPaidIsNoOp() {
	id := "99999999-0000-0000-0000-000000000002"
	paidAt := fixedNow.Add(-time.Hour)
	suite.transactions.On("MarkPaid", suite.ctx, suite.scope, id, fixedNow).Return(false, nil).Once()
	suite.transactions.On("FindByID", suite.ctx, suite.scope, id).
		Return(&domain.Transaction{TransactionID: id, Status: domain.TransactionPaid, PaidAt: &paidAt}, nil).Once()

	tx, err := suite.transactionService().MarkPaid(suite.ctx, id)

	suite.Require().NoError(err)
	suite.Equal(paidAt, *tx.PaidAt)
}

func TestCommerceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommerceServiceTestSuite))
}
