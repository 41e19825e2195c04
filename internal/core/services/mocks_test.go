package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/stretchr/testify/mock"
)

// --- Tenant resolver returning a fixed caller ---

type staticTenants struct {
	identity domain.Identity
}

func (s *staticTenants) ResolveIdentity(context.Context) domain.Identity { return s.identity }

func (s *staticTenants) ResolveTenant(ctx context.Context) domain.TenantInfo {
	return domain.ResolveTenant(s.ResolveIdentity(ctx))
}

func adminOf(tenantID string) *staticTenants {
	return &staticTenants{identity: domain.Identity{UserID: tenantID, Role: domain.RoleAdmin}}
}

func memberOf(tenantID, userID string, role domain.Role) *staticTenants {
	parent := tenantID
	return &staticTenants{identity: domain.Identity{UserID: userID, Role: role, ParentAdminID: &parent}}
}

func anonymous() *staticTenants { return &staticTenants{} }

// --- Generic scoped repository mock ---

type mockScoped[T any] struct {
	mock.Mock
}

func (m *mockScoped[T]) FindByID(ctx context.Context, scope domain.TenantScope, id string) (*T, error) {
	args := m.Called(ctx, scope, id)
	var out *T
	if v := args.Get(0); v != nil {
		out = v.(*T)
	}
	return out, args.Error(1)
}

func (m *mockScoped[T]) List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[T], error) {
	args := m.Called(ctx, scope, params)
	return args.Get(0).(domain.Page[T]), args.Error(1)
}

func (m *mockScoped[T]) Create(ctx context.Context, scope domain.TenantScope, entity T) error {
	return m.Called(ctx, scope, entity).Error(0)
}

func (m *mockScoped[T]) Update(ctx context.Context, scope domain.TenantScope, entity T) error {
	return m.Called(ctx, scope, entity).Error(0)
}

func (m *mockScoped[T]) Delete(ctx context.Context, scope domain.TenantScope, id string) error {
	return m.Called(ctx, scope, id).Error(0)
}

func (m *mockScoped[T]) CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error) {
	args := m.Called(ctx, scope, id)
	return args.Int(0), args.Error(1)
}

// --- Entity repositories ---

type MockSupplierRepository struct{ mockScoped[domain.Supplier] }

type MockCategoryRepository struct{ mockScoped[domain.Category] }

type MockCustomerRepository struct{ mockScoped[domain.Customer] }

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, scope domain.TenantScope, email string) (*domain.Customer, error) {
	args := m.Called(ctx, scope, email)
	var out *domain.Customer
	if v := args.Get(0); v != nil {
		out = v.(*domain.Customer)
	}
	return out, args.Error(1)
}

type MockProductRepository struct{ mockScoped[domain.Product] }

func (m *MockProductRepository) FindBySKU(ctx context.Context, scope domain.TenantScope, sku string) (*domain.Product, error) {
	args := m.Called(ctx, scope, sku)
	var out *domain.Product
	if v := args.Get(0); v != nil {
		out = v.(*domain.Product)
	}
	return out, args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, scope domain.TenantScope, productID string, delta int, at time.Time) (int, error) {
	args := m.Called(ctx, scope, productID, delta, at)
	return args.Int(0), args.Error(1)
}

type MockOfferingRepository struct {
	mockScoped[domain.ServiceOffering]
}

type MockQuoteRepository struct {
	mockScoped[domain.SupplierQuote]
}

func (m *MockQuoteRepository) ReplaceItems(ctx context.Context, scope domain.TenantScope, quote domain.SupplierQuote) error {
	return m.Called(ctx, scope, quote).Error(0)
}

func (m *MockQuoteRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, quoteID string, status domain.QuoteStatus, at time.Time) error {
	return m.Called(ctx, scope, quoteID, status, at).Error(0)
}

type MockSaleRepository struct{ mockScoped[domain.Sale] }

func (m *MockSaleRepository) FindByExternalOrder(ctx context.Context, scope domain.TenantScope, externalOrderID string) (*domain.Sale, error) {
	args := m.Called(ctx, scope, externalOrderID)
	var out *domain.Sale
	if v := args.Get(0); v != nil {
		out = v.(*domain.Sale)
	}
	return out, args.Error(1)
}

func (m *MockSaleRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, saleID string, from, to domain.SaleStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, scope, saleID, from, to, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) Complete(ctx context.Context, scope domain.TenantScope, saleID string, income domain.Transaction, at time.Time) (bool, error) {
	args := m.Called(ctx, scope, saleID, income, at)
	return args.Bool(0), args.Error(1)
}

type MockTransactionRepository struct{ mockScoped[domain.Transaction] }

func (m *MockTransactionRepository) MarkPaid(ctx context.Context, scope domain.TenantScope, transactionID string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, scope, transactionID, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) MarkOrderPaid(ctx context.Context, scope domain.TenantScope, externalOrderID string, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, scope, externalOrderID, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Summary(ctx context.Context, scope domain.TenantScope) (domain.FinancialSummary, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(domain.FinancialSummary), args.Error(1)
}

type MockShipmentRepository struct{ mockScoped[domain.Shipment] }

func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, scope domain.TenantScope, shipmentID string, status domain.ShipmentStatus, trackingCode string, at time.Time) error {
	return m.Called(ctx, scope, shipmentID, status, trackingCode, at).Error(0)
}

func (m *MockShipmentRepository) MarkOrderShipped(ctx context.Context, scope domain.TenantScope, externalOrderID, trackingCode string, at time.Time) (int64, error) {
	args := m.Called(ctx, scope, externalOrderID, trackingCode, at)
	return args.Get(0).(int64), args.Error(1)
}

type MockIntegrationRepository struct{ mock.Mock }

func (m *MockIntegrationRepository) Find(ctx context.Context, scope domain.TenantScope, provider domain.IntegrationProvider) (*domain.IntegrationConfig, error) {
	args := m.Called(ctx, scope, provider)
	var out *domain.IntegrationConfig
	if v := args.Get(0); v != nil {
		out = v.(*domain.IntegrationConfig)
	}
	return out, args.Error(1)
}

func (m *MockIntegrationRepository) Upsert(ctx context.Context, scope domain.TenantScope, cfg domain.IntegrationConfig) error {
	return m.Called(ctx, scope, cfg).Error(0)
}

func (m *MockIntegrationRepository) FindEnabledByStore(ctx context.Context, provider domain.IntegrationProvider, storeID string) (*domain.IntegrationConfig, error) {
	args := m.Called(ctx, provider, storeID)
	var out *domain.IntegrationConfig
	if v := args.Get(0); v != nil {
		out = v.(*domain.IntegrationConfig)
	}
	return out, args.Error(1)
}

type MockOrderImportRepository struct{ mock.Mock }

func (m *MockOrderImportRepository) SaveImportedOrder(ctx context.Context, scope domain.TenantScope, order portsrepo.ImportedOrder) error {
	return m.Called(ctx, scope, order).Error(0)
}

type MockOrderFetcher struct{ mock.Mock }

func (m *MockOrderFetcher) FetchOrder(ctx context.Context, storeID, accessToken, orderID string) (*marketplace.Order, error) {
	args := m.Called(ctx, storeID, accessToken, orderID)
	var out *marketplace.Order
	if v := args.Get(0); v != nil {
		out = v.(*marketplace.Order)
	}
	return out, args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
	FindUserByIDFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime).Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) ListTeamMembers(ctx context.Context, scope domain.TenantScope) ([]domain.User, error) {
	args := m.Called(ctx, scope)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindTeamMember(ctx context.Context, scope domain.TenantScope, userID string) (*domain.User, error) {
	args := m.Called(ctx, scope, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateTeamMemberRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role, at time.Time) error {
	return m.Called(ctx, scope, userID, role, at).Error(0)
}

func (m *MockUserRepository) DeleteTeamMember(ctx context.Context, scope domain.TenantScope, userID string) error {
	return m.Called(ctx, scope, userID).Error(0)
}

func (m *MockUserRepository) ListTenants(ctx context.Context, params domain.ListParams) (domain.Page[domain.TenantSummary], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Page[domain.TenantSummary]), args.Error(1)
}

func (m *MockUserRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

var (
	_ portsrepo.SupplierRepositoryFacade          = (*MockSupplierRepository)(nil)
	_ portsrepo.CategoryRepositoryFacade          = (*MockCategoryRepository)(nil)
	_ portsrepo.CustomerRepositoryFacade          = (*MockCustomerRepository)(nil)
	_ portsrepo.ProductRepositoryFacade           = (*MockProductRepository)(nil)
	_ portsrepo.ServiceOfferingRepositoryFacade   = (*MockOfferingRepository)(nil)
	_ portsrepo.SupplierQuoteRepositoryFacade     = (*MockQuoteRepository)(nil)
	_ portsrepo.SaleRepositoryFacade              = (*MockSaleRepository)(nil)
	_ portsrepo.TransactionRepositoryFacade       = (*MockTransactionRepository)(nil)
	_ portsrepo.ShipmentRepositoryFacade          = (*MockShipmentRepository)(nil)
	_ portsrepo.IntegrationConfigRepositoryFacade = (*MockIntegrationRepository)(nil)
	_ portsrepo.OrderImportRepository             = (*MockOrderImportRepository)(nil)
	_ portsrepo.UserRepositoryFacade              = (*MockUserRepository)(nil)
	_ marketplace.OrderFetcher                    = (*MockOrderFetcher)(nil)
)
