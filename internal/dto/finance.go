package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description string          `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Status      string          `json:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	DueDate     time.Time       `json:"dueDate" binding:"required"`
	CategoryID  *string         `json:"categoryID" binding:"omitempty,uuid"`
	SupplierID  *string         `json:"supplierID" binding:"omitempty,uuid"`
	CustomerID  *string         `json:"customerID" binding:"omitempty,uuid"`
}

type IntegrationConfigRequest struct {
	StoreID     string `json:"storeID" binding:"required,max=64"`
	AccessToken string `json:"accessToken" binding:"omitempty,max=512"`
	SyncEnabled bool   `json:"syncEnabled"`
}
