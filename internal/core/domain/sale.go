package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
)

type SaleChannel string

const (
	ChannelPOS         SaleChannel = "POS"
	ChannelMarketplace SaleChannel = "MARKETPLACE"
)

// Sale is a point-of-sale or marketplace sale.
type Sale struct {
	SaleID          string          `json:"saleID" db:"sale_id"`
	UserID          string          `json:"userID" db:"user_id"`
	CustomerID      *string         `json:"customerID,omitempty" db:"customer_id"`
	Status          SaleStatus      `json:"status" db:"status"`
	Channel         SaleChannel     `json:"channel" db:"channel"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	ExternalOrderID *string         `json:"externalOrderID,omitempty" db:"external_order_id"`
	SoldAt          time.Time       `json:"soldAt" db:"sold_at"`
	Notes           string          `json:"notes" db:"notes"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Items           []LineItem      `json:"items" db:"-"`
	AuditFields
}

// Recalculate recomputes line totals and the sale total.
func (s *Sale) Recalculate() {
	s.Total = ComputeLineTotals(s.Items)
}

// CanTransitionTo reports whether the sale may move to next.
func (s *Sale) CanTransitionTo(next SaleStatus) bool {
	if s.Status != SalePending {
		return false
	}
	return next == SaleCompleted || next == SaleCancelled
}
