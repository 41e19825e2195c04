package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Tenants TenantResolver

	Auth        AuthSvcFacade
	Token       TokenSvcFacade
	GoogleOAuth GoogleOAuthHandlerSvcFacade

	Category    CategorySvcFacade
	Supplier    SupplierSvcFacade
	Quote       SupplierQuoteSvcFacade
	Customer    CustomerSvcFacade
	Product     ProductSvcFacade
	Offering    ServiceOfferingSvcFacade
	Transaction TransactionSvcFacade
	Sale        SaleSvcFacade
	Shipment    ShipmentSvcFacade
	Company     CompanySvcFacade
	Integration IntegrationSvcFacade
	Team        TeamSvcFacade
	Operator    OperatorSvcFacade
	Webhook     WebhookSvcFacade
}
