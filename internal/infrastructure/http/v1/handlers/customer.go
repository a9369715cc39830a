package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customer catalog endpoints.
type CustomerHandler struct {
	*BaseHandler
	customers *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, customers *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, customers: customers}
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.customers.Create(c.Request.Context(), businessID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	found, err := h.customers.Get(c.Request.Context(), businessID, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, found)
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.customers.List(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.customers.Update(c.Request.Context(), businessID, customerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), businessID, customerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
