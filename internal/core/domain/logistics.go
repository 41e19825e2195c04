package domain

// ShipmentStatus tracks a delivery.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "PENDING"
	ShipmentShipped   ShipmentStatus = "SHIPPED"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
	ShipmentCancelled ShipmentStatus = "CANCELLED"
)

// Shipment is the logistics record of a sale.
type Shipment struct {
	ShipmentID      string         `json:"shipmentID" db:"shipment_id"`
	UserID          string         `json:"userID" db:"user_id"`
	SaleID          *string        `json:"saleID,omitempty" db:"sale_id"`
	ExternalOrderID *string        `json:"externalOrderID,omitempty" db:"external_order_id"`
	Carrier         string         `json:"carrier" db:"carrier"`
	TrackingCode    string         `json:"trackingCode" db:"tracking_code"`
	Status          ShipmentStatus `json:"status" db:"status"`
	Address         string         `json:"address" db:"address"`
	AuditFields
}
