package dto

type SupplierRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Document    string `json:"document" binding:"max=32"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	Phone       string `json:"phone" binding:"max=32"`
	ContactName string `json:"contactName" binding:"max=100"`
	Notes       string `json:"notes" binding:"max=2000"`
}

type CustomerRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Phone    string `json:"phone" binding:"max=32"`
	Document string `json:"document" binding:"max=32"`
	Address  string `json:"address" binding:"max=500"`
	Notes    string `json:"notes" binding:"max=2000"`
}

type CompanyRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Document string `json:"document" binding:"max=32"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Phone    string `json:"phone" binding:"max=32"`
	Address  string `json:"address" binding:"max=500"`
}
