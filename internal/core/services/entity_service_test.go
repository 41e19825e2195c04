package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/cache"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/core/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	tenantA = "11111111-1111-1111-1111-111111111111"
	tenantB = "22222222-2222-2222-2222-222222222222"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequentialIDs() func() string {
	ids := []string{
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
		"aaaaaaaa-0000-0000-0000-000000000003",
		"aaaaaaaa-0000-0000-0000-000000000004",
		"aaaaaaaa-0000-0000-0000-000000000005",
		"aaaaaaaa-0000-0000-0000-000000000006",
		"aaaaaaaa-0000-0000-0000-000000000007",
		"aaaaaaaa-0000-0000-0000-000000000008",
	}
	n := 0
	return func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}
}

type SupplierServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockSupplierRepository
}

func (suite *SupplierServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockSupplierRepository)
}

func (suite *SupplierServiceTestSuite) service(tenants portssvc.TenantResolver, opts ...services.ServiceOption) portssvc.SupplierSvcFacade {
	opts = append([]services.ServiceOption{services.WithClock(fixedClock)}, opts...)
	return services.NewSupplierService(tenants, suite.mockRepo, opts...)
}

func (suite *SupplierServiceTestSuite) TestCreate_StampsTenantAndActor() {
	svc := suite.service(memberOf(tenantA, "member-1", domain.RoleManager))
	wantScope := domain.TenantScope{TenantID: tenantA, ActorID: "member-1"}

	suite.mockRepo.On("Create", suite.ctx, wantScope, mock.MatchedBy(func(s domain.Supplier) bool {
		return s.UserID == tenantA && s.CreatedBy == "member-1" && s.Name == "Acme Paper"
	})).Return(nil).Once()

	created, err := svc.Create(suite.ctx, dto.SupplierRequest{Name: "Acme Paper", Email: " sales@acme.test "})

	suite.Require().NoError(err)
	suite.NotEmpty(created.SupplierID)
	suite.Equal("sales@acme.test", created.Email)
	suite.Equal(fixedNow, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestCreate_InvalidPayload() {
	svc := suite.service(adminOf(tenantA))

	_, err := svc.Create(suite.ctx, dto.SupplierRequest{Email: "not-an-email"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Contains(appErr.Fields, "name")
	suite.Contains(appErr.Fields, "email")
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestCreate_Anonymous() {
	svc := suite.service(anonymous())

	_, err := svc.Create(suite.ctx, dto.SupplierRequest{Name: "Acme"})

	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestCreate_ViewerDenied() {
	svc := suite.service(memberOf(tenantA, "viewer-1", domain.RoleViewer))

	_, err := svc.Create(suite.ctx, dto.SupplierRequest{Name: "Acme"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestGet_OtherTenantIsNotFound() {
	svc := suite.service(adminOf(tenantB))
	scopeB := domain.TenantScope{TenantID: tenantB, ActorID: tenantB}

	suite.mockRepo.On("FindByID", suite.ctx, scopeB, "supplier-of-a").
		Return(nil, apperrors.NewNotFoundError("supplier not found")).Once()

	got, err := svc.Get(suite.ctx, "supplier-of-a")

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestDelete_BlockedByReferences() {
	svc := suite.service(adminOf(tenantA))
	scope := domain.TenantScope{TenantID: tenantA, ActorID: tenantA}

	suite.mockRepo.On("CountReferences", suite.ctx, scope, "supplier-1").Return(2, nil).Once()

	err := svc.Delete(suite.ctx, "supplier-1")

	suite.ErrorIs(err, apperrors.ErrReferentialConflict)
	suite.Equal(409, apperrors.StatusCode(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestDelete_RestrictedDenied() {
	svc := suite.service(memberOf(tenantA, "restricted-1", domain.RoleRestricted))

	err := svc.Delete(suite.ctx, "supplier-1")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "CountReferences", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SupplierServiceTestSuite) TestDelete_Success() {
	svc := suite.service(adminOf(tenantA))
	scope := domain.TenantScope{TenantID: tenantA, ActorID: tenantA}

	suite.mockRepo.On("CountReferences", suite.ctx, scope, "supplier-1").Return(0, nil).Once()
	suite.mockRepo.On("Delete", suite.ctx, scope, "supplier-1").Return(nil).Once()

	suite.NoError(svc.Delete(suite.ctx, "supplier-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestList_ServedFromCacheUntilWrite() {
	views := cache.NewMemoryCache(100, time.Minute)
	svc := suite.service(adminOf(tenantA), services.WithViewCache(views))
	scope := domain.TenantScope{TenantID: tenantA, ActorID: tenantA}
	params := domain.ListParams{}.Normalize()
	page := domain.Page[domain.Supplier]{
		Items: []domain.Supplier{{SupplierID: "supplier-1", UserID: tenantA, Name: "Acme"}},
		Total: 1,
	}

	suite.mockRepo.On("List", suite.ctx, scope, params).Return(page, nil).Twice()
	suite.mockRepo.On("Create", suite.ctx, scope, mock.AnythingOfType("domain.Supplier")).Return(nil).Once()

	first, err := svc.List(suite.ctx, domain.ListParams{})
	suite.Require().NoError(err)
	second, err := svc.List(suite.ctx, domain.ListParams{})
	suite.Require().NoError(err)
	suite.Equal(first.Total, second.Total)
	suite.Equal("Acme", second.Items[0].Name)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "List", 1)

	_, err = svc.Create(suite.ctx, dto.SupplierRequest{Name: "Beta"})
	suite.Require().NoError(err)

	_, err = svc.List(suite.ctx, domain.ListParams{})
	suite.Require().NoError(err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "List", 2)
}

func (suite *SupplierServiceTestSuite) TestList_CacheIsPartitionedByTenant() {
	views := cache.NewMemoryCache(100, time.Minute)
	params := domain.ListParams{}.Normalize()
	scopeA := domain.TenantScope{TenantID: tenantA, ActorID: tenantA}
	scopeB := domain.TenantScope{TenantID: tenantB, ActorID: tenantB}

	suite.mockRepo.On("List", suite.ctx, scopeA, params).
		Return(domain.Page[domain.Supplier]{Items: []domain.Supplier{{SupplierID: "a-1", Name: "Only A"}}, Total: 1}, nil).Once()
	suite.mockRepo.On("List", suite.ctx, scopeB, params).
		Return(domain.Page[domain.Supplier]{Items: []domain.Supplier{}, Total: 0}, nil).Once()

	_, err := suite.service(adminOf(tenantA), services.WithViewCache(views)).List(suite.ctx, domain.ListParams{})
	suite.Require().NoError(err)
	pageB, err := suite.service(adminOf(tenantB), services.WithViewCache(views)).List(suite.ctx, domain.ListParams{})
	suite.Require().NoError(err)

	suite.Equal(0, pageB.Total)
	suite.Empty(pageB.Items)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestSupplierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SupplierServiceTestSuite))
}

func TestCustomerService_LowercasesEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := services.NewCustomerService(adminOf(tenantA), repo)

	repo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Email == "ana@shop.test"
	})).Return(nil).Once()

	created, err := svc.Create(ctx, dto.CustomerRequest{Name: "Ana", Email: "Ana@Shop.Test"})

	require.NoError(t, err)
	assert.Equal(t, "ana@shop.test", created.Email)
	repo.AssertExpectations(t)
}
