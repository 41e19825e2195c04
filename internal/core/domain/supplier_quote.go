package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteSent     QuoteStatus = "SENT"
	QuoteApproved QuoteStatus = "APPROVED"
	QuoteRejected QuoteStatus = "REJECTED"
)

// SupplierQuote is a price quote requested from a supplier.
type SupplierQuote struct {
	QuoteID    string          `json:"quoteID" db:"quote_id"`
	UserID     string          `json:"userID" db:"user_id"`
	SupplierID string          `json:"supplierID" db:"supplier_id"`
	Title      string          `json:"title" db:"title"`
	Status     QuoteStatus     `json:"status" db:"status"`
	ValidUntil *time.Time      `json:"validUntil,omitempty" db:"valid_until"`
	Notes      string          `json:"notes" db:"notes"`
	Total      decimal.Decimal `json:"total" db:"total"`
	Items      []LineItem      `json:"items" db:"-"`
	AuditFields
}

// Recalculate recomputes line totals and the quote total.
func (q *SupplierQuote) Recalculate() {
	q.Total = ComputeLineTotals(q.Items)
}
