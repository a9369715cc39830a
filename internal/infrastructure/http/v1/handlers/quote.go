package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/ledger"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// QuoteHandler handles quote endpoints, including conversion.
type QuoteHandler struct {
	*BaseHandler
	quotes *ledger.QuoteService
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(base *BaseHandler, quotes *ledger.QuoteService) *QuoteHandler {
	return &QuoteHandler{BaseHandler: base, quotes: quotes}
}

// RegisterRoutes registers quote routes.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/status", h.ChangeStatus)
	rg.POST("/:id/convert", h.Convert)
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToCreateInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	q, err := h.quotes.Create(c.Request.Context(), businessID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	q, err := h.quotes.Get(c.Request.Context(), businessID, quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// List handles GET /quotes.
func (h *QuoteHandler) List(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.quotes.List(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /quotes/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToUpdateInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	q, err := h.quotes.Update(c.Request.Context(), businessID, quoteID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// Delete handles DELETE /quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.quotes.Delete(c.Request.Context(), businessID, quoteID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ChangeStatus handles POST /quotes/:id/status.
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeQuoteStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.quotes.ChangeStatus(c.Request.Context(), businessID, quoteID, ledger.QuoteStatus(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// Convert handles POST /quotes/:id/convert.
func (h *QuoteHandler) Convert(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	quoteID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.quotes.Convert(c.Request.Context(), businessID, quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}
