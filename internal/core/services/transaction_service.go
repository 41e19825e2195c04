package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const transactionsView = "transactions"

type transactionService struct {
	*entityService[domain.Transaction, dto.TransactionRequest]
	transactions portsrepo.TransactionRepositoryFacade
	categories   portsrepo.CategoryRepositoryFacade
	suppliers    portsrepo.SupplierRepositoryFacade
	customers    portsrepo.CustomerRepositoryFacade
}

// NewTransactionService creates the receivables and payables service.
func NewTransactionService(tenants portssvc.TenantResolver, repos portsrepo.RepositoryProvider, opts ...ServiceOption) portssvc.TransactionSvcFacade {
	s := &transactionService{
		entityService: &entityService[domain.Transaction, dto.TransactionRequest]{
			BaseService: newBaseService(tenants, opts...),
			entity:      transactionsView,
			repo:        repos.TransactionRepo,
			idOf:        func(t *domain.Transaction) string { return t.TransactionID },
		},
		transactions: repos.TransactionRepo,
		categories:   repos.CategoryRepo,
		suppliers:    repos.SupplierRepo,
		customers:    repos.CustomerRepo,
	}
	s.build = s.buildTransaction
	return s
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) buildTransaction(ctx context.Context, tenant domain.TenantInfo, req dto.TransactionRequest, existing *domain.Transaction) (domain.Transaction, error) {
	scope := tenant.Scope()
	checks := []struct {
		field string
		id    *string
		find  func(context.Context, string) error
	}{
		{"categoryID", req.CategoryID, existsIn[domain.Category](s.categories, scope)},
		{"supplierID", req.SupplierID, existsIn[domain.Supplier](s.suppliers, scope)},
		{"customerID", req.CustomerID, existsIn[domain.Customer](s.customers, scope)},
	}
	for _, c := range checks {
		if err := requireInTenant(ctx, c.field, c.id, c.find); err != nil {
			return domain.Transaction{}, err
		}
	}

	now := s.now()
	var t domain.Transaction
	if existing == nil {
		t = domain.Transaction{
			TransactionID: s.newID(),
			UserID:        tenant.TenantID,
			Status:        domain.TransactionPending,
			AuditFields:   domain.NewAuditFields(tenant.UserID, now),
		}
	} else {
		t = *existing
		t.Touch(tenant.UserID, now)
	}
	t.Type = domain.TransactionType(req.Type)
	t.Description = req.Description
	t.Amount = req.Amount
	t.DueDate = req.DueDate.UTC()
	t.CategoryID = req.CategoryID
	t.SupplierID = req.SupplierID
	t.CustomerID = req.CustomerID
	if req.Status != "" {
		t.Status = domain.TransactionStatus(req.Status)
	}
	switch {
	case t.Status == domain.TransactionPaid && t.PaidAt == nil:
		t.PaidAt = &now
	case t.Status != domain.TransactionPaid:
		t.PaidAt = nil
	}
	return t, nil
}

// MarkPaid settles a pending transaction. Paying an already paid transaction
// changes nothing; a cancelled one cannot be paid.
func (s *transactionService) MarkPaid(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	changed, err := s.transactions.MarkPaid(ctx, tenant.Scope(), transactionID, s.now())
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to mark transaction paid", slog.String("transaction_id", transactionID))
	}
	t, err := s.transactions.FindByID(ctx, tenant.Scope(), transactionID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reload transaction", slog.String("transaction_id", transactionID))
	}
	if !changed {
		if t.Status != domain.TransactionPaid {
			return nil, apperrors.NewValidationFailedError("only pending transactions can be paid")
		}
		return t, nil
	}
	s.invalidate(ctx, tenant.TenantID, transactionsView, transactionID)
	s.LogInfo(ctx, "Transaction paid", slog.String("transaction_id", transactionID))
	return t, nil
}

// Summary aggregates the tenant's transactions. It is cached with the listing view.
func (s *transactionService) Summary(ctx context.Context) (domain.FinancialSummary, error) {
	tenant, err := s.authorize(ctx, actionRead)
	if err != nil {
		return domain.FinancialSummary{}, err
	}
	return cachedRead(ctx, &s.BaseService, tenant.TenantID, transactionsView, "summary", func() (domain.FinancialSummary, error) {
		summary, err := s.transactions.Summary(ctx, tenant.Scope())
		if err != nil {
			return summary, s.fail(ctx, err, "Failed to summarize transactions")
		}
		return summary, nil
	})
}
