package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const quotesView = "supplier-quotes"

type supplierQuoteService struct {
	*entityService[domain.SupplierQuote, dto.SupplierQuoteRequest]
	quotes    portsrepo.SupplierQuoteRepositoryFacade
	suppliers portsrepo.SupplierRepositoryFacade
	refs      lineRefs
}

// NewSupplierQuoteService creates the supplier quote service. Totals are
// always recomputed from the items.
func NewSupplierQuoteService(
	tenants portssvc.TenantResolver,
	repo portsrepo.SupplierQuoteRepositoryFacade,
	suppliers portsrepo.SupplierRepositoryFacade,
	products portsrepo.ProductRepositoryFacade,
	opts ...ServiceOption,
) portssvc.SupplierQuoteSvcFacade {
	s := &supplierQuoteService{
		entityService: &entityService[domain.SupplierQuote, dto.SupplierQuoteRequest]{
			BaseService: newBaseService(tenants, opts...),
			entity:      quotesView,
			repo:        repo,
			idOf:        func(q *domain.SupplierQuote) string { return q.QuoteID },
		},
		quotes:    repo,
		suppliers: suppliers,
		refs:      lineRefs{products: products},
	}
	s.build = s.buildQuote
	return s
}

var _ portssvc.SupplierQuoteSvcFacade = (*supplierQuoteService)(nil)

// buildQuote applies req to a new or stored quote. Items, when sent, replace
// the stored ones and the total follows them.
func (s *supplierQuoteService) buildQuote(ctx context.Context, tenant domain.TenantInfo, req dto.SupplierQuoteRequest, existing *domain.SupplierQuote) (domain.SupplierQuote, error) {
	supplierID := req.SupplierID
	if err := requireInTenant(ctx, "supplierID", &supplierID, existsIn[domain.Supplier](s.suppliers, tenant.Scope())); err != nil {
		return domain.SupplierQuote{}, err
	}

	now := s.now()
	var q domain.SupplierQuote
	if existing == nil {
		if err := s.refs.check(ctx, tenant.Scope(), req.Items); err != nil {
			return q, err
		}
		q = domain.SupplierQuote{
			QuoteID:     s.newID(),
			UserID:      tenant.TenantID,
			Status:      domain.QuoteDraft,
			Items:       dto.ToLineItems(req.Items, s.newID),
			AuditFields: domain.NewAuditFields(tenant.UserID, now),
		}
		q.Recalculate()
	} else {
		q = *existing
		if req.Items != nil {
			if err := s.refs.check(ctx, tenant.Scope(), req.Items); err != nil {
				return q, err
			}
			q.Items = dto.ToLineItems(req.Items, s.newID)
			q.Recalculate()
		}
		q.Touch(tenant.UserID, now)
	}
	q.SupplierID = supplierID
	q.Title = req.Title
	q.ValidUntil = req.ValidUntil
	q.Notes = req.Notes
	return q, nil
}

func (s *supplierQuoteService) ReplaceItems(ctx context.Context, quoteID string, req dto.QuoteItemsRequest) (*domain.SupplierQuote, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	q, err := s.quotes.FindByID(ctx, tenant.Scope(), quoteID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to load supplier quote", slog.String("quote_id", quoteID))
	}
	if err := s.refs.check(ctx, tenant.Scope(), req.Items); err != nil {
		return nil, err
	}

	q.Items = dto.ToLineItems(req.Items, s.newID)
	q.Recalculate()
	q.Touch(tenant.UserID, s.now())
	if err := s.quotes.ReplaceItems(ctx, tenant.Scope(), *q); err != nil {
		return nil, s.fail(ctx, err, "Failed to replace quote items", slog.String("quote_id", quoteID))
	}
	s.invalidate(ctx, tenant.TenantID, quotesView, quoteID)
	s.LogInfo(ctx, "Supplier quote items replaced",
		slog.String("quote_id", quoteID),
		slog.Int("items", len(q.Items)),
		slog.String("total", q.Total.StringFixed(2)))
	return q, nil
}

func (s *supplierQuoteService) UpdateStatus(ctx context.Context, quoteID string, req dto.QuoteStatusRequest) (*domain.SupplierQuote, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.UpdateStatus(ctx, tenant.Scope(), quoteID, domain.QuoteStatus(req.Status), s.now()); err != nil {
		return nil, s.fail(ctx, err, "Failed to update quote status", slog.String("quote_id", quoteID))
	}
	s.invalidate(ctx, tenant.TenantID, quotesView, quoteID)
	q, err := s.quotes.FindByID(ctx, tenant.Scope(), quoteID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reload supplier quote", slog.String("quote_id", quoteID))
	}
	return q, nil
}
