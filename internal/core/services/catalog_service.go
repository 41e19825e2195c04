package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
)

const (
	categoriesView = "categories"
	productsView   = "products"
	offeringsView  = "services"
)

// NewCategoryService creates the category service.
func NewCategoryService(tenants portssvc.TenantResolver, repo portsrepo.CategoryRepositoryFacade, opts ...ServiceOption) portssvc.CategorySvcFacade {
	s := &entityService[domain.Category, dto.CategoryRequest]{
		BaseService: newBaseService(tenants, opts...),
		entity:      categoriesView,
		repo:        repo,
		idOf:        func(c *domain.Category) string { return c.CategoryID },
		refs:        repo,
		refsMessage: "category is used by products, services or transactions",
	}
	s.build = func(_ context.Context, tenant domain.TenantInfo, req dto.CategoryRequest, existing *domain.Category) (domain.Category, error) {
		now := s.now()
		var c domain.Category
		if existing == nil {
			c = domain.Category{
				CategoryID:  s.newID(),
				UserID:      tenant.TenantID,
				AuditFields: domain.NewAuditFields(tenant.UserID, now),
			}
		} else {
			c = *existing
			c.Touch(tenant.UserID, now)
		}
		c.Name = req.Name
		c.Type = domain.CategoryType(req.Type)
		c.Color = req.Color
		return c, nil
	}
	return s
}

type productService struct {
	*entityService[domain.Product, dto.ProductRequest]
	products   portsrepo.ProductRepositoryFacade
	categories portsrepo.CategoryRepositoryFacade
}

// NewProductService creates the product service.
func NewProductService(
	tenants portssvc.TenantResolver,
	repo portsrepo.ProductRepositoryFacade,
	categories portsrepo.CategoryRepositoryFacade,
	opts ...ServiceOption,
) portssvc.ProductSvcFacade {
	s := &productService{
		entityService: &entityService[domain.Product, dto.ProductRequest]{
			BaseService: newBaseService(tenants, opts...),
			entity:      productsView,
			repo:        repo,
			idOf:        func(p *domain.Product) string { return p.ProductID },
			refs:        repo,
			refsMessage: "product is referenced by sales or supplier quotes",
		},
		products:   repo,
		categories: categories,
	}
	s.build = s.buildProduct
	return s
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) buildProduct(ctx context.Context, tenant domain.TenantInfo, req dto.ProductRequest, existing *domain.Product) (domain.Product, error) {
	if err := requireInTenant(ctx, "categoryID", req.CategoryID, existsIn[domain.Category](s.categories, tenant.Scope())); err != nil {
		return domain.Product{}, err
	}

	now := s.now()
	var p domain.Product
	if existing == nil {
		p = domain.Product{
			ProductID:   s.newID(),
			UserID:      tenant.TenantID,
			IsActive:    true,
			AuditFields: domain.NewAuditFields(tenant.UserID, now),
		}
	} else {
		p = *existing
		p.Touch(tenant.UserID, now)
	}
	p.Name = req.Name
	p.SKU = req.SKU
	p.Description = req.Description
	p.CategoryID = req.CategoryID
	p.Price = req.Price
	p.Cost = req.Cost
	p.Stock = req.Stock
	p.MinStock = req.MinStock
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p, nil
}

// AdjustStock moves stock by a relative delta. The store refuses to go below zero.
func (s *productService) AdjustStock(ctx context.Context, productID string, req dto.AdjustStockRequest) (*domain.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	tenant, err := s.authorize(ctx, actionWrite)
	if err != nil {
		return nil, err
	}
	stock, err := s.products.AdjustStock(ctx, tenant.Scope(), productID, req.Delta, s.now())
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to adjust stock", slog.String("product_id", productID))
	}
	s.invalidate(ctx, tenant.TenantID, productsView, productID)
	s.LogInfo(ctx, "Stock adjusted",
		slog.String("product_id", productID),
		slog.Int("delta", req.Delta),
		slog.Int("stock", stock),
		slog.String("reason", req.Reason))

	p, err := s.products.FindByID(ctx, tenant.Scope(), productID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reload product", slog.String("product_id", productID))
	}
	return p, nil
}

// NewServiceOfferingService creates the service catalog service.
func NewServiceOfferingService(
	tenants portssvc.TenantResolver,
	repo portsrepo.ServiceOfferingRepositoryFacade,
	categories portsrepo.CategoryRepositoryFacade,
	opts ...ServiceOption,
) portssvc.ServiceOfferingSvcFacade {
	s := &entityService[domain.ServiceOffering, dto.ServiceOfferingRequest]{
		BaseService: newBaseService(tenants, opts...),
		entity:      offeringsView,
		repo:        repo,
		idOf:        func(o *domain.ServiceOffering) string { return o.ServiceID },
	}
	s.build = func(ctx context.Context, tenant domain.TenantInfo, req dto.ServiceOfferingRequest, existing *domain.ServiceOffering) (domain.ServiceOffering, error) {
		if err := requireInTenant(ctx, "categoryID", req.CategoryID, existsIn[domain.Category](categories, tenant.Scope())); err != nil {
			return domain.ServiceOffering{}, err
		}
		now := s.now()
		var o domain.ServiceOffering
		if existing == nil {
			o = domain.ServiceOffering{
				ServiceID:   s.newID(),
				UserID:      tenant.TenantID,
				IsActive:    true,
				AuditFields: domain.NewAuditFields(tenant.UserID, now),
			}
		} else {
			o = *existing
			o.Touch(tenant.UserID, now)
		}
		o.Name = req.Name
		o.Description = req.Description
		o.CategoryID = req.CategoryID
		o.Price = req.Price
		o.DurationMinutes = req.DurationMinutes
		if req.IsActive != nil {
			o.IsActive = *req.IsActive
		}
		return o, nil
	}
	return s
}
