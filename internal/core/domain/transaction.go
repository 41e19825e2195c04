package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates money in or money out.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransactionStatus is the settlement state of a financial record.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionPaid      TransactionStatus = "PAID"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// Transaction is a receivable or payable.
type Transaction struct {
	TransactionID   string            `json:"transactionID" db:"transaction_id"`
	UserID          string            `json:"userID" db:"user_id"`
	Type            TransactionType   `json:"type" db:"type"`
	Description     string            `json:"description" db:"description"`
	Amount          decimal.Decimal   `json:"amount" db:"amount"`
	Status          TransactionStatus `json:"status" db:"status"`
	DueDate         time.Time         `json:"dueDate" db:"due_date"`
	PaidAt          *time.Time        `json:"paidAt,omitempty" db:"paid_at"`
	CategoryID      *string           `json:"categoryID,omitempty" db:"category_id"`
	SupplierID      *string           `json:"supplierID,omitempty" db:"supplier_id"`
	CustomerID      *string           `json:"customerID,omitempty" db:"customer_id"`
	SaleID          *string           `json:"saleID,omitempty" db:"sale_id"`
	ExternalOrderID *string           `json:"externalOrderID,omitempty" db:"external_order_id"`
	AuditFields
}

// FinancialSummary aggregates a tenant's transactions.
type FinancialSummary struct {
	IncomePaid     decimal.Decimal `json:"incomePaid"`
	IncomePending  decimal.Decimal `json:"incomePending"`
	ExpensePaid    decimal.Decimal `json:"expensePaid"`
	ExpensePending decimal.Decimal `json:"expensePending"`
	Balance        decimal.Decimal `json:"balance"`
}
