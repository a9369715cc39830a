package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/catalogs/item"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles item catalog endpoints.
type ItemHandler struct {
	*BaseHandler
	items *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, items *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, items: items}
}

// RegisterRoutes registers item routes.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.items.Create(c.Request.Context(), businessID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	found, err := h.items.Get(c.Request.Context(), businessID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, found)
}

// List handles GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.items.List(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.items.Update(c.Request.Context(), businessID, itemID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), businessID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
