package dto

// LoginRequest for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest signs up a new business with its owner account. The
// business is always freshly minted; no field selects an existing tenant.
type RegisterRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Currency     string `json:"currency" binding:"required,currency_code"`
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
}

// TokenResponse for successful logins.
type TokenResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}
