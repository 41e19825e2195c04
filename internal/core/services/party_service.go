package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const (
	suppliersView = "suppliers"
	customersView = "customers"
	companyView   = "company"
)

// NewSupplierService creates the supplier service. Suppliers with quotes or
// transactions cannot be deleted.
func NewSupplierService(tenants portssvc.TenantResolver, repo portsrepo.SupplierRepositoryFacade, opts ...ServiceOption) portssvc.SupplierSvcFacade {
	s := &entityService[domain.Supplier, dto.SupplierRequest]{
		BaseService: newBaseService(tenants, opts...),
		entity:      suppliersView,
		repo:        repo,
		idOf:        func(sp *domain.Supplier) string { return sp.SupplierID },
		refs:        repo,
		refsMessage: "supplier has linked transactions or quotes",
	}
	s.build = func(_ context.Context, tenant domain.TenantInfo, req dto.SupplierRequest, existing *domain.Supplier) (domain.Supplier, error) {
		now := s.now()
		var sp domain.Supplier
		if existing == nil {
			sp = domain.Supplier{
				SupplierID:  s.newID(),
				UserID:      tenant.TenantID,
				AuditFields: domain.NewAuditFields(tenant.UserID, now),
			}
		} else {
			sp = *existing
			sp.Touch(tenant.UserID, now)
		}
		sp.Name = req.Name
		sp.Document = req.Document
		sp.Email = strings.TrimSpace(req.Email)
		sp.Phone = req.Phone
		sp.ContactName = req.ContactName
		sp.Notes = req.Notes
		return sp, nil
	}
	return s
}

// NewCustomerService creates the CRM contact service.
func NewCustomerService(tenants portssvc.TenantResolver, repo portsrepo.CustomerRepositoryFacade, opts ...ServiceOption) portssvc.CustomerSvcFacade {
	s := &entityService[domain.Customer, dto.CustomerRequest]{
		BaseService: newBaseService(tenants, opts...),
		entity:      customersView,
		repo:        repo,
		idOf:        func(c *domain.Customer) string { return c.CustomerID },
		refs:        repo,
		refsMessage: "customer has linked sales or transactions",
	}
	s.build = func(_ context.Context, tenant domain.TenantInfo, req dto.CustomerRequest, existing *domain.Customer) (domain.Customer, error) {
		now := s.now()
		var c domain.Customer
		if existing == nil {
			c = domain.Customer{
				CustomerID:  s.newID(),
				UserID:      tenant.TenantID,
				AuditFields: domain.NewAuditFields(tenant.UserID, now),
			}
		} else {
			c = *existing
			c.Touch(tenant.UserID, now)
		}
		c.Name = req.Name
		c.Email = strings.ToLower(strings.TrimSpace(req.Email))
		c.Phone = req.Phone
		c.Document = req.Document
		c.Address = req.Address
		c.Notes = req.Notes
		return c, nil
	}
	return s
}

type companyService struct {
	BaseService
	repo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates the service for the tenant's business profile.
func NewCompanyService(tenants portssvc.TenantResolver, repo portsrepo.CompanyRepositoryFacade, opts ...ServiceOption) portssvc.CompanySvcFacade {
	return &companyService{BaseService: newBaseService(tenants, opts...), repo: repo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) Get(ctx context.Context) (*domain.Company, error) {
	tenant, err := s.authorize(ctx, actionRead)
	if err != nil {
		return nil, err
	}
	return cachedRead(ctx, &s.BaseService, tenant.TenantID, companyView, "", func() (*domain.Company, error) {
		company, err := s.repo.Find(ctx, tenant.Scope())
		if err != nil {
			return nil, s.fail(ctx, err, "Failed to load company profile")
		}
		return company, nil
	})
}

// Upsert creates the profile on first save and overwrites it afterwards.
func (s *companyService) Upsert(ctx context.Context, req dto.CompanyRequest) (*domain.Company, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionAdmin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	company, err := s.repo.Find(ctx, tenant.Scope())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		company = &domain.Company{
			CompanyID:   s.newID(),
			UserID:      tenant.TenantID,
			AuditFields: domain.NewAuditFields(tenant.UserID, now),
		}
	case err != nil:
		return nil, s.fail(ctx, err, "Failed to load company profile")
	default:
		company.Touch(tenant.UserID, now)
	}
	company.Name = req.Name
	company.Document = req.Document
	company.Email = req.Email
	company.Phone = req.Phone
	company.Address = req.Address

	if err := s.repo.Upsert(ctx, tenant.Scope(), *company); err != nil {
		return nil, s.fail(ctx, err, "Failed to save company profile")
	}
	s.invalidate(ctx, tenant.TenantID, companyView)
	s.LogInfo(ctx, "Company profile saved", slog.String("tenant_id", tenant.TenantID))
	return company, nil
}
