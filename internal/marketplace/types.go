// Package marketplace talks to the external storefront platform: inbound
// webhook payloads, signature checks and the orders API.
package marketplace

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order/created"
	EventOrderPaid      = "order/paid"
	EventOrderFulfilled = "order/fulfilled"

	SignatureHeader = "X-Linkedstore-Hmac-Sha256"
)

// ID accepts identifiers sent either as JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// WebhookEvent is the notification body the platform posts.
type WebhookEvent struct {
	Event                  string `json:"event"`
	StoreID                ID     `json:"store_id"`
	ID                     ID     `json:"id"`
	Number                 ID     `json:"number"`
	ShippingTrackingNumber string `json:"shipping_tracking_number"`
}

// Order is the subset of the platform's order resource that gets imported.
type Order struct {
	ID                     ID              `json:"id"`
	Number                 ID              `json:"number"`
	Total                  decimal.Decimal `json:"total"`
	Gateway                string          `json:"gateway"`
	PaymentStatus          string          `json:"payment_status"`
	ShippingOption         string          `json:"shipping_option"`
	ShippingTrackingNumber string          `json:"shipping_tracking_number"`
	CreatedAt              time.Time       `json:"created_at"`
	Customer               OrderCustomer   `json:"customer"`
	Products               []OrderProduct  `json:"products"`
	ShippingAddress        ShippingAddress `json:"shipping_address"`
}

type OrderCustomer struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Identification string `json:"identification"`
}

type OrderProduct struct {
	ProductID ID              `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ShippingAddress struct {
	Address  string `json:"address"`
	Number   string `json:"number"`
	Floor    string `json:"floor"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zipcode  string `json:"zipcode"`
}

// String renders the address on one line, skipping empty parts.
func (a ShippingAddress) String() string {
	street := strings.TrimSpace(strings.Join([]string{a.Address, a.Number, a.Floor}, " "))
	parts := []string{}
	for _, p := range []string{street, a.Locality, a.City, a.Province, a.Zipcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
