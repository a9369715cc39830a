// Package auth provides user accounts and JWT-based authentication.
// Every token carries the user's business, which becomes the tenant scope of
// each request.
package auth

import (
	"context"
	"strings"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

// User is an account belonging to exactly one business.
type User struct {
	ID         id.ID  `db:"id" json:"id"`
	BusinessID id.ID  `db:"business_id" json:"businessId"`
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`

	// PasswordHash is a bcrypt hash; never serialized.
	PasswordHash string `db:"password_hash" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewUser creates a user for a business. The caller supplies the hash.
func NewUser(businessID id.ID, email, name, passwordHash string) *User {
	return &User{
		ID:           id.New(),
		BusinessID:   businessID,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Validate checks the user fields.
func (u *User) Validate(ctx context.Context) error {
	if id.IsNil(u.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return apperror.NewValidation("valid email is required").
			WithDetail("field", "email")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	return nil
}
