package pgsql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/repositories/database/pgsql"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ScopedQueryTestSuite struct {
	suite.Suite
	mock  pgxmock.PgxPoolIface
	ctx   context.Context
	scope domain.TenantScope
}

func (s *ScopedQueryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(s.T(), err)
	s.mock = mock
	s.ctx = context.Background()
	s.scope = domain.TenantScope{TenantID: "tenant-a", ActorID: "member-1"}
}

func (s *ScopedQueryTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestScopedQueryTestSuite(t *testing.T) {
	suite.Run(t, new(ScopedQueryTestSuite))
}

func (s *ScopedQueryTestSuite) TestDelete_OtherTenantsRowIsNotFound() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectExec(`DELETE FROM suppliers WHERE supplier_id = \$1 AND user_id = \$2`).
		WithArgs("sup-of-tenant-b", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repos.SupplierRepo.Delete(s.ctx, s.scope, "sup-of-tenant-b")

	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *ScopedQueryTestSuite) TestEmptyScopeNeverReachesDatabase() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	empty := domain.TenantScope{}

	_, err := repos.CustomerRepo.FindByID(s.ctx, empty, "c-1")
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthenticated)

	_, err = repos.ProductRepo.List(s.ctx, empty, domain.ListParams{})
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthenticated)

	err = repos.CategoryRepo.Delete(s.ctx, empty, "cat-1")
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthenticated)
}

func (s *ScopedQueryTestSuite) TestFindByID_FiltersByTenant() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	now := time.Now()
	rows := pgxmock.NewRows([]string{"category_id", "user_id", "name", "type", "color",
		"created_at", "created_by", "last_updated_at", "last_updated_by"}).
		AddRow("cat-1", "tenant-a", "Rent", domain.CategoryExpense, "#ff0000", now, "member-1", now, "member-1")
	s.mock.ExpectQuery(`SELECT .+ FROM categories WHERE category_id = \$1 AND user_id = \$2`).
		WithArgs("cat-1", "tenant-a").
		WillReturnRows(rows)

	category, err := repos.CategoryRepo.FindByID(s.ctx, s.scope, "cat-1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Rent", category.Name)
	assert.Equal(s.T(), "tenant-a", category.UserID)
}

func (s *ScopedQueryTestSuite) TestList_SearchAndPaginationStayInsideTenant() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM suppliers WHERE user_id = \$1 AND \(name ILIKE \$2`).
		WithArgs("tenant-a", "%acme%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(`SELECT .+ FROM suppliers WHERE user_id = \$1 AND .+ ORDER BY name LIMIT \$3 OFFSET \$4`).
		WithArgs("tenant-a", "%acme%", 10, 10).
		WillReturnRows(pgxmock.NewRows([]string{"supplier_id", "user_id", "name", "document", "email", "phone",
			"contact_name", "notes", "created_at", "created_by", "last_updated_at", "last_updated_by"}))

	page, err := repos.SupplierRepo.List(s.ctx, s.scope, domain.ListParams{Search: "acme", Page: 2, PageSize: 10})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, page.Total)
	assert.NotNil(s.T(), page.Items)
	assert.Empty(s.T(), page.Items)
}

func (s *ScopedQueryTestSuite) TestCreate_StampsTenantFromScope() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	supplier := domain.Supplier{SupplierID: "sup-1", UserID: "tenant-b", Name: "Acme"}
	s.mock.ExpectExec(`INSERT INTO suppliers`).
		WithArgs("sup-1", "tenant-a", "Acme", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(s.T(), repos.SupplierRepo.Create(s.ctx, s.scope, supplier))
}

func (s *ScopedQueryTestSuite) TestUpdate_PredicateFollowsSetColumns() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectExec(`UPDATE supplier_quotes SET status = \$1, last_updated_at = \$2, last_updated_by = \$3 WHERE quote_id = \$4 AND user_id = \$5`).
		WithArgs(domain.QuoteApproved, pgxmock.AnyArg(), "member-1", "q-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(s.T(), repos.QuoteRepo.UpdateStatus(s.ctx, s.scope, "q-1", domain.QuoteApproved, time.Now()))
}

func (s *ScopedQueryTestSuite) TestSupplierReferences_CountLinkedRecords() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM transactions WHERE supplier_id = \$1 AND user_id = \$2\) \+ \(SELECT COUNT\(\*\) FROM supplier_quotes`).
		WithArgs("sup-1", "tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repos.SupplierRepo.CountReferences(s.ctx, s.scope, "sup-1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, n)
}

func (s *ScopedQueryTestSuite) TestMarkOrderPaid_OnlyTouchesPendingRows() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectExec(`UPDATE transactions SET status = 'PAID'.+WHERE user_id = \$3 AND external_order_id = \$4 AND status = 'PENDING'`).
		WithArgs(pgxmock.AnyArg(), "member-1", "tenant-a", "9001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := repos.TransactionRepo.MarkOrderPaid(s.ctx, s.scope, "9001", time.Now())

	require.NoError(s.T(), err)
	assert.Zero(s.T(), n)
}

func (s *ScopedQueryTestSuite) TestReplaceItems_RunsInOneTransaction() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	quote := domain.SupplierQuote{QuoteID: "q-1"}
	quote.Touch("member-1", time.Now())

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE supplier_quotes SET total = \$1, last_updated_at = \$2, last_updated_by = \$3 WHERE quote_id = \$4 AND user_id = \$5`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "member-1", "q-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectExec(`DELETE FROM supplier_quote_items WHERE quote_id = \$1 AND user_id = \$2`).
		WithArgs("q-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	s.mock.ExpectCommit()

	require.NoError(s.T(), repos.QuoteRepo.ReplaceItems(s.ctx, s.scope, quote))
}

func (s *ScopedQueryTestSuite) TestReplaceItems_RollsBackWhenQuoteBelongsElsewhere() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	quote := domain.SupplierQuote{QuoteID: "q-other"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE supplier_quotes SET total`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	s.mock.ExpectRollback()

	err := repos.QuoteRepo.ReplaceItems(s.ctx, s.scope, quote)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *ScopedQueryTestSuite) TestQuoteUpdate_WritesHeaderAndItemsTogether() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	quote := domain.SupplierQuote{QuoteID: "q-1", SupplierID: "sup-1", Title: "Paper"}
	quote.Touch("member-1", time.Now())

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE supplier_quotes SET supplier_id = \$1, title = \$2, valid_until = \$3, notes = \$4, total = \$5, last_updated_at = \$6, last_updated_by = \$7 WHERE quote_id = \$8 AND user_id = \$9`).
		WithArgs("sup-1", "Paper", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "member-1", "q-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectExec(`DELETE FROM supplier_quote_items WHERE quote_id = \$1 AND user_id = \$2`).
		WithArgs("q-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), repos.QuoteRepo.Update(s.ctx, s.scope, quote))
}

func (s *ScopedQueryTestSuite) TestQuoteUpdate_ItemFailureRollsBackHeader() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	quote := domain.SupplierQuote{QuoteID: "q-1"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE supplier_quotes SET supplier_id`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectExec(`DELETE FROM supplier_quote_items`).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	assert.Error(s.T(), repos.QuoteRepo.Update(s.ctx, s.scope, quote))
}

func (s *ScopedQueryTestSuite) TestCompleteSale_IncomeFailureRollsBackStatus() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	saleID := "sale-1"
	income := domain.Transaction{TransactionID: "tx-1", Type: domain.Income, SaleID: &saleID}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE sales SET status = \$1, last_updated_at = \$2, last_updated_by = \$3 WHERE sale_id = \$5 AND user_id = \$6 AND status = \$4`).
		WithArgs(domain.SaleCompleted, pgxmock.AnyArg(), "member-1", domain.SalePending, "sale-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	completed, err := repos.SaleRepo.Complete(s.ctx, s.scope, saleID, income, time.Now())

	assert.Error(s.T(), err)
	assert.False(s.T(), completed)
}

func (s *ScopedQueryTestSuite) TestCompleteSale_AlreadyClosedSkipsIncome() {
	repos := pgsql.NewRepositoryProvider(s.mock)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE sales SET status`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	s.mock.ExpectCommit()

	completed, err := repos.SaleRepo.Complete(s.ctx, s.scope, "sale-1", domain.Transaction{TransactionID: "tx-1"}, time.Now())

	require.NoError(s.T(), err)
	assert.False(s.T(), completed)
}

func (s *ScopedQueryTestSuite) TestMarkOrderShipped_FinalShipmentsAreLeftAlone() {
	repos := pgsql.NewRepositoryProvider(s.mock)
	s.mock.ExpectExec(`(?s)UPDATE shipments SET status = 'SHIPPED', tracking_code = COALESCE\(NULLIF\(\$1::text, ''\), tracking_code\).+WHERE user_id = \$4 AND external_order_id = \$5\s+AND \(status = 'PENDING' OR \(status = 'SHIPPED' AND \$1::text <> '' AND tracking_code IS DISTINCT FROM \$1::text\)\)`).
		WithArgs("", pgxmock.AnyArg(), "member-1", "tenant-a", "9001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := repos.ShipmentRepo.MarkOrderShipped(s.ctx, s.scope, "9001", "", time.Now())

	require.NoError(s.T(), err)
	assert.Zero(s.T(), n)
}
