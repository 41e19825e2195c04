package dto

import (
	"time"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one priced line. A submitted total is ignored.
type LineItemRequest struct {
	ProductID   *string         `json:"productID" binding:"omitempty,uuid"`
	ServiceID   *string         `json:"serviceID" binding:"omitempty,uuid"`
	Description string          `json:"description" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"gte=0"`
	Total       decimal.Decimal `json:"total"`
}

// ToLineItems maps requests to domain items with fresh ids.
func ToLineItems(reqs []LineItemRequest, newID func() string) []domain.LineItem {
	items := make([]domain.LineItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.LineItem{
			ItemID:      newID(),
			ProductID:   r.ProductID,
			ServiceID:   r.ServiceID,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
	}
	return items
}

type SupplierQuoteRequest struct {
	SupplierID string            `json:"supplierID" binding:"required,uuid"`
	Title      string            `json:"title" binding:"required,max=150"`
	ValidUntil *time.Time        `json:"validUntil"`
	Notes      string            `json:"notes" binding:"max=2000"`
	Items      []LineItemRequest `json:"items" binding:"dive"`
}

type QuoteItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"dive"`
}

type QuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SENT APPROVED REJECTED"`
}

type SaleRequest struct {
	CustomerID    *string           `json:"customerID" binding:"omitempty,uuid"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,max=50"`
	SoldAt        *time.Time        `json:"soldAt"`
	Notes         string            `json:"notes" binding:"max=2000"`
	Items         []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ShipmentRequest struct {
	SaleID       *string `json:"saleID" binding:"omitempty,uuid"`
	Carrier      string  `json:"carrier" binding:"max=100"`
	TrackingCode string  `json:"trackingCode" binding:"max=100"`
	Address      string  `json:"address" binding:"max=500"`
	Status       string  `json:"status" binding:"omitempty,oneof=PENDING SHIPPED DELIVERED CANCELLED"`
}

type ShipmentStatusRequest struct {
	Status       string `json:"status" binding:"required,oneof=PENDING SHIPPED DELIVERED CANCELLED"`
	TrackingCode string `json:"trackingCode" binding:"max=100"`
}
