package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"fakturo/internal/core/id"
	"fakturo/internal/domain/ledger"
	"fakturo/internal/infrastructure/http/v1/dto"
	"fakturo/internal/infrastructure/storage/postgres"
)

// AuditReader serves the recorded change history of a document.
type AuditReader interface {
	History(ctx context.Context, businessID id.ID, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

// InvoiceHandler handles invoice endpoints, including payment application.
type InvoiceHandler struct {
	*BaseHandler
	invoices *ledger.InvoiceService
	payments *ledger.PaymentService
	audit    AuditReader
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(base *BaseHandler, invoices *ledger.InvoiceService, payments *ledger.PaymentService, audit AuditReader) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoices: invoices, payments: payments, audit: audit}
}

// RegisterRoutes registers invoice routes.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/payments", h.ApplyPayment)
	rg.GET("/:id/payments", h.ListPayments)
	rg.GET("/:id/receipts", h.ListReceipts)
	rg.GET("/:id/history", h.History)
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToCreateInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.invoices.Create(c.Request.Context(), businessID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoices.Get(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// List handles GET /invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.invoices.List(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToUpdateInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.invoices.Update(c.Request.Context(), businessID, invoiceID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), businessID, invoiceID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ApplyPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.payments.ApplyPayment(c.Request.Context(), businessID, invoiceID, req.ToApplyInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListPayments handles GET /invoices/:id/payments.
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.invoices.ListPayments(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, payments)
}

// History handles GET /invoices/:id/history. Entries carry the full
// before/after payloads recorded by the ledger mutations, newest first.
func (h *InvoiceHandler) History(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	// Missing and cross-business invoices must be indistinguishable.
	if _, err := h.invoices.Get(c.Request.Context(), businessID, invoiceID); err != nil {
		h.Error(c, err)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	entries, err := h.audit.History(c.Request.Context(), businessID, "invoice", invoiceID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// ListReceipts handles GET /invoices/:id/receipts.
func (h *InvoiceHandler) ListReceipts(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	receipts, err := h.payments.ListReceipts(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, receipts)
}
