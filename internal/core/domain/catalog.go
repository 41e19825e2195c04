package domain

import "github.com/shopspring/decimal"

// CategoryType says what a category classifies.
type CategoryType string

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryExpense CategoryType = "EXPENSE"
	CategoryProduct CategoryType = "PRODUCT"
)

// Category groups transactions, products and services.
type Category struct {
	CategoryID string       `json:"categoryID" db:"category_id"`
	UserID     string       `json:"userID" db:"user_id"` // tenant partition key
	Name       string       `json:"name" db:"name"`
	Type       CategoryType `json:"type" db:"type"`
	Color      string       `json:"color" db:"color"`
	AuditFields
}

// Product is a stock-keeping item sold through the POS or the marketplace.
type Product struct {
	ProductID   string          `json:"productID" db:"product_id"`
	UserID      string          `json:"userID" db:"user_id"`
	Name        string          `json:"name" db:"name"`
	SKU         *string         `json:"sku,omitempty" db:"sku"`
	Description string          `json:"description" db:"description"`
	CategoryID  *string         `json:"categoryID,omitempty" db:"category_id"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	Stock       int             `json:"stock" db:"stock"`
	MinStock    int             `json:"minStock" db:"min_stock"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	AuditFields
}

// LowStock reports whether stock fell to or below the configured minimum.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ServiceOffering is a billable service (no stock).
type ServiceOffering struct {
	ServiceID       string          `json:"serviceID" db:"service_id"`
	UserID          string          `json:"userID" db:"user_id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	CategoryID      *string         `json:"categoryID,omitempty" db:"category_id"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationMinutes int             `json:"durationMinutes" db:"duration_minutes"`
	IsActive        bool            `json:"isActive" db:"is_active"`
	AuditFields
}
