package handlers

import (
	"net/http"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/gin-gonic/gin"
)

// commerceHandler serves the actions that go beyond plain CRUD on
// products, quotes, sales, transactions and shipments.
type commerceHandler struct {
	products     portssvc.ProductSvcFacade
	quotes       portssvc.SupplierQuoteSvcFacade
	sales        portssvc.SaleSvcFacade
	transactions portssvc.TransactionSvcFacade
	shipments    portssvc.ShipmentSvcFacade
}

// registerBusinessRoutes mounts every tenant entity under the dashboard group.
func registerBusinessRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &commerceHandler{
		products:     services.Product,
		quotes:       services.Quote,
		sales:        services.Sale,
		transactions: services.Transaction,
		shipments:    services.Shipment,
	}

	registerEntityRoutes[domain.Category, dto.CategoryRequest](rg, "/categories", "category", services.Category)
	registerEntityRoutes[domain.ServiceOffering, dto.ServiceOfferingRequest](rg, "/services", "service", services.Offering)
	registerEntityRoutes[domain.Supplier, dto.SupplierRequest](rg, "/suppliers", "supplier", services.Supplier)
	registerEntityRoutes[domain.Customer, dto.CustomerRequest](rg, "/customers", "customer", services.Customer)

	products := registerEntityRoutes[domain.Product, dto.ProductRequest](rg, "/products", "product", services.Product)
	products.POST("/:id/stock", h.adjustStock)

	quotes := registerEntityRoutes[domain.SupplierQuote, dto.SupplierQuoteRequest](rg, "/supplier-quotes", "supplier quote", services.Quote)
	quotes.PUT("/:id/items", h.replaceQuoteItems)
	quotes.PUT("/:id/status", h.updateQuoteStatus)

	transactions := registerEntityRoutes[domain.Transaction, dto.TransactionRequest](rg, "/transactions", "transaction", services.Transaction)
	transactions.GET("/summary", h.financialSummary)
	transactions.POST("/:id/pay", h.markTransactionPaid)

	sales := registerEntityRoutes[domain.Sale, dto.SaleRequest](rg, "/sales", "sale", services.Sale)
	sales.POST("/:id/complete", h.completeSale)
	sales.POST("/:id/cancel", h.cancelSale)

	shipments := registerEntityRoutes[domain.Shipment, dto.ShipmentRequest](rg, "/shipments", "shipment", services.Shipment)
	shipments.PUT("/:id/status", h.updateShipmentStatus)
}

// adjustStock godoc
// @Summary Adjust product stock
// @Description Adds or removes units from a product's stock. Stock never goes below zero.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param adjustment body dto.AdjustStockRequest true "Stock delta"
// @Success 200 {object} domain.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/products/{id}/stock [post]
func (h *commerceHandler) adjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.products.AdjustStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

// replaceQuoteItems godoc
// @Summary Replace supplier quote items
// @Description Swaps every item of the quote and recomputes its total.
// @Tags supplier-quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param items body dto.QuoteItemsRequest true "New items"
// @Success 200 {object} domain.SupplierQuote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/supplier-quotes/{id}/items [put]
func (h *commerceHandler) replaceQuoteItems(c *gin.Context) {
	var req dto.QuoteItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.quotes.ReplaceItems(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to replace quote items")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// updateQuoteStatus godoc
// @Summary Change supplier quote status
// @Tags supplier-quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param status body dto.QuoteStatusRequest true "New status"
// @Success 200 {object} domain.SupplierQuote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/supplier-quotes/{id}/status [put]
func (h *commerceHandler) updateQuoteStatus(c *gin.Context) {
	var req dto.QuoteStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.quotes.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update quote status")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// financialSummary godoc
// @Summary Financial summary
// @Description Paid and pending totals of income and expenses, and the paid balance.
// @Tags transactions
// @Produce json
// @Success 200 {object} domain.FinancialSummary
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/transactions/summary [get]
func (h *commerceHandler) financialSummary(c *gin.Context) {
	summary, err := h.transactions.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute financial summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// markTransactionPaid godoc
// @Summary Settle a transaction
// @Description Marks a pending transaction as paid. Paying an already paid transaction changes nothing.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/transactions/{id}/pay [post]
func (h *commerceHandler) markTransactionPaid(c *gin.Context) {
	txn, err := h.transactions.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to mark transaction paid")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// completeSale godoc
// @Summary Complete a sale
// @Description Closes a pending sale, books its income and takes the sold products out of stock.
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} domain.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/sales/{id}/complete [post]
func (h *commerceHandler) completeSale(c *gin.Context) {
	sale, err := h.sales.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to complete sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// cancelSale godoc
// @Summary Cancel a sale
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} domain.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/sales/{id}/cancel [post]
func (h *commerceHandler) cancelSale(c *gin.Context) {
	sale, err := h.sales.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// updateShipmentStatus godoc
// @Summary Change shipment status
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param status body dto.ShipmentStatusRequest true "New status"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/shipments/{id}/status [put]
func (h *commerceHandler) updateShipmentStatus(c *gin.Context) {
	var req dto.ShipmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	shipment, err := h.shipments.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update shipment status")
		return
	}
	c.JSON(http.StatusOK, shipment)
}
