package handlers

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/business"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service    *auth.Service
	businesses *business.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service, businesses *business.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service, businesses: businesses}
}

// RegisterRoutes registers auth routes on the public group.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.Register)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.TokenResponse{Token: result.Token, User: result.User})
}

// Register handles POST /auth/register. Signup mints a new business and its
// owner; it never accepts an existing business id.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.businesses.Signup(c.Request.Context(), business.SignupInput{
		BusinessName: req.BusinessName,
		Currency:     req.Currency,
		OwnerName:    req.Name,
		OwnerEmail:   req.Email,
		Password:     req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, result.Owner.ID)
}
