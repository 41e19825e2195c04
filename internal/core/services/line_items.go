package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/SscSPs/bizdesk/internal/dto"
)

// lineRefs resolves the products and services that line items point at.
type lineRefs struct {
	products  portsrepo.ScopedReader[domain.Product]
	offerings portsrepo.ScopedReader[domain.ServiceOffering]
}

// check rejects items that reference a product or service outside the tenant.
func (r lineRefs) check(ctx context.Context, scope domain.TenantScope, items []dto.LineItemRequest) error {
	fields := make(map[string]string)
	for i, item := range items {
		if item.ProductID != nil && r.products != nil {
			if _, err := r.products.FindByID(ctx, scope, *item.ProductID); err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				fields[fmt.Sprintf("items[%d].productID", i)] = "does not exist"
			}
		}
		if item.ServiceID != nil && r.offerings != nil {
			if _, err := r.offerings.FindByID(ctx, scope, *item.ServiceID); err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				fields[fmt.Sprintf("items[%d].serviceID", i)] = "does not exist"
			}
		}
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}
