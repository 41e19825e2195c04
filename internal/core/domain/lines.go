package domain

import "github.com/shopspring/decimal"

// LineItem is a priced quantity on a quote or a sale.
type LineItem struct {
	ItemID      string          `json:"itemID" db:"item_id"`
	ProductID   *string         `json:"productID,omitempty" db:"product_id"`
	ServiceID   *string         `json:"serviceID,omitempty" db:"service_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Total       decimal.Decimal `json:"total" db:"total"`
}

// ComputeLineTotals sets each item's total to quantity x unit price and
// returns the sum. Client-submitted totals are overwritten.
func ComputeLineTotals(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		items[i].Total = items[i].Quantity.Mul(items[i].UnitPrice).Round(2)
		sum = sum.Add(items[i].Total)
	}
	return sum
}
