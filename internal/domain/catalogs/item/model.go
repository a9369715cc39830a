// Package item provides the sellable goods and services catalog.
package item

import (
	"context"
	"strings"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Item is a catalog entry used to prefill document lines. Documents copy its
// values at issue time; later price changes never touch issued documents.
type Item struct {
	entity.BaseDocument

	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description,omitempty"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	TaxRate     types.Rate  `db:"tax_rate" json:"taxRate"`
	Unit        string      `db:"unit" json:"unit,omitempty"`
	Active      bool        `db:"active" json:"active"`
}

// New creates an active catalog item.
func New(businessID id.ID, name string, unitPrice types.Money, taxRate types.Rate) *Item {
	return &Item{
		BaseDocument: entity.NewBaseDocument(businessID),
		Name:         name,
		UnitPrice:    unitPrice,
		TaxRate:      taxRate,
		Active:       true,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if id.IsNil(i.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}
	if i.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative").
			WithDetail("field", "unitPrice")
	}
	if i.TaxRate.IsNegative() {
		return apperror.NewValidation("tax rate must not be negative").
			WithDetail("field", "taxRate")
	}
	return nil
}

var _ entity.Validatable = (*Item)(nil)
