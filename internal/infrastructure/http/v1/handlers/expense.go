package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/documents/expense"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	*BaseHandler
	expenses *expense.Service
}

// NewExpenseHandler creates an expense handler.
func NewExpenseHandler(base *BaseHandler, expenses *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, expenses: expenses}
}

// RegisterRoutes registers expense routes.
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.expenses.Create(c.Request.Context(), businessID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// Get handles GET /expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	found, err := h.expenses.Get(c.Request.Context(), businessID, expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, found)
}

// List handles GET /expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.expenses.List(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Update handles PUT /expenses/:id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.expenses.Update(c.Request.Context(), businessID, expenseID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	businessID, ok := h.BusinessID(c)
	if !ok {
		return
	}
	expenseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), businessID, expenseID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
