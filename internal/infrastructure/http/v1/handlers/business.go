package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/business"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// BusinessHandler handles the caller's own business profile.
// All operations act on the business from the token scope; there is no
// cross-business listing.
type BusinessHandler struct {
	*BaseHandler
	businesses *business.Service
}

// NewBusinessHandler creates a business handler.
func NewBusinessHandler(base *BaseHandler, businesses *business.Service) *BusinessHandler {
	return &BusinessHandler{BaseHandler: base, businesses: businesses}
}

// RegisterRoutes registers business routes.
func (h *BusinessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
	rg.DELETE("", h.Purge)
}

// Get handles GET /business.
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	b, err := h.businesses.Get(c.Request.Context(), businessID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Update handles PUT /business.
func (h *BusinessHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.BusinessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.businesses.Update(c.Request.Context(), businessID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Purge handles DELETE /business. Irreversibly removes the business and all
// its records.
func (h *BusinessHandler) Purge(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	if err := h.businesses.Purge(c.Request.Context(), businessID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
