package domain

// IntegrationProvider names an external marketplace.
type IntegrationProvider string

const ProviderNuvemshop IntegrationProvider = "nuvemshop"

// IntegrationConfig is a tenant's stored credential for one marketplace connection.
type IntegrationConfig struct {
	IntegrationID string              `json:"integrationID" db:"integration_id"`
	UserID        string              `json:"userID" db:"user_id"`
	Provider      IntegrationProvider `json:"provider" db:"provider"`
	StoreID       string              `json:"storeID" db:"store_id"`
	AccessToken   string              `json:"-" db:"access_token"`
	SyncEnabled   bool                `json:"syncEnabled" db:"sync_enabled"`
	AuditFields
}
