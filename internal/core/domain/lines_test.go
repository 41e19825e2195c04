package domain_test

import (
	"testing"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeLineTotals_IgnoresClientTotals(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("10.50"), Total: decimal.NewFromInt(1)},
		{Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.NewFromInt(8), Total: decimal.NewFromInt(999)},
	}

	sum := domain.ComputeLineTotals(items)

	assert.True(t, decimal.RequireFromString("31.50").Equal(items[0].Total))
	assert.True(t, decimal.NewFromInt(4).Equal(items[1].Total))
	assert.True(t, decimal.RequireFromString("35.50").Equal(sum))
}

func TestSale_CanTransitionTo(t *testing.T) {
	s := domain.Sale{Status: domain.SalePending}
	assert.True(t, s.CanTransitionTo(domain.SaleCompleted))
	assert.False(t, s.CanTransitionTo(domain.SalePending))

	s.Status = domain.SaleCancelled
	assert.False(t, s.CanTransitionTo(domain.SaleCompleted))
}

func TestSupplierQuote_Recalculate(t *testing.T) {
	q := domain.SupplierQuote{
		Total: decimal.NewFromInt(1),
		Items: []domain.LineItem{{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(7)}},
	}
	q.Recalculate()
	assert.True(t, decimal.NewFromInt(14).Equal(q.Total))
}
