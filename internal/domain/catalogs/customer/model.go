// Package customer provides the customer catalog.
package customer

import (
	"context"
	"strings"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
)

// Customer is the party invoices and quotes are issued to.
type Customer struct {
	entity.BaseDocument

	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	TaxID   string `db:"tax_id" json:"taxId,omitempty"`
}

// New creates a customer for a business.
func New(businessID id.ID, name string) *Customer {
	return &Customer{
		BaseDocument: entity.NewBaseDocument(businessID),
		Name:         name,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if id.IsNil(c.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Customer)(nil)
