package domain

// Supplier is a vendor the business buys from.
type Supplier struct {
	SupplierID  string `json:"supplierID" db:"supplier_id"`
	UserID      string `json:"userID" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Document    string `json:"document" db:"document"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`
	ContactName string `json:"contactName" db:"contact_name"`
	Notes       string `json:"notes" db:"notes"`
	AuditFields
}

// Customer is a CRM contact.
type Customer struct {
	CustomerID string `json:"customerID" db:"customer_id"`
	UserID     string `json:"userID" db:"user_id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone" db:"phone"`
	Document   string `json:"document" db:"document"`
	Address    string `json:"address" db:"address"`
	Notes      string `json:"notes" db:"notes"`
	AuditFields
}

// Company is the tenant's own business profile. There is at most one per tenant.
type Company struct {
	CompanyID string `json:"companyID" db:"company_id"`
	UserID    string `json:"userID" db:"user_id"`
	Name      string `json:"name" db:"name"`
	Document  string `json:"document" db:"document"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
	Address   string `json:"address" db:"address"`
	AuditFields
}
