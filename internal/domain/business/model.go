// Package business provides the tenant root entity and its lifecycle,
// including full cascading purge.
package business

import (
	"context"
	"strings"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

// Business is the tenant root. Every other record carries its ID.
type Business struct {
	ID      id.ID  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	TaxID   string `db:"tax_id" json:"taxId,omitempty"`

	// Currency is the default for new documents; individual documents may
	// override it.
	Currency string `db:"currency" json:"currency"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a business.
func New(name, currency string) *Business {
	now := time.Now().UTC()
	return &Business{
		ID:        id.New(),
		Name:      name,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the business fields.
func (b *Business) Validate(ctx context.Context) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("business name is required").
			WithDetail("field", "name")
	}
	if b.Currency == "" {
		return apperror.NewValidation("default currency is required").
			WithDetail("field", "currency")
	}
	return nil
}
