package dto

import "github.com/shopspring/decimal"

type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Type  string `json:"type" binding:"required,oneof=INCOME EXPENSE PRODUCT"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=150"`
	SKU         *string         `json:"sku" binding:"omitempty,max=64"`
	Description string          `json:"description" binding:"max=2000"`
	CategoryID  *string         `json:"categoryID" binding:"omitempty,uuid"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Cost        decimal.Decimal `json:"cost" binding:"gte=0"`
	Stock       int             `json:"stock" binding:"gte=0"`
	MinStock    int             `json:"minStock" binding:"gte=0"`
	IsActive    *bool           `json:"isActive"`
}

// AdjustStockRequest moves stock by a relative amount.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"ne=0"`
	Reason string `json:"reason" binding:"max=200"`
}

type ServiceOfferingRequest struct {
	Name            string          `json:"name" binding:"required,max=150"`
	Description     string          `json:"description" binding:"max=2000"`
	CategoryID      *string         `json:"categoryID" binding:"omitempty,uuid"`
	Price           decimal.Decimal `json:"price" binding:"gte=0"`
	DurationMinutes int             `json:"durationMinutes" binding:"gte=0,lte=10080"`
	IsActive        *bool           `json:"isActive"`
}
