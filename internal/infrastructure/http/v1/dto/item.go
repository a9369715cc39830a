package dto

import (
	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
	"fakturo/internal/domain/catalogs/item"
)

// ItemRequest for creating and updating catalog items.
type ItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice" binding:"required"`
	TaxRate     string `json:"taxRate"`
	Unit        string `json:"unit"`
	Active      *bool  `json:"active"`
}

// ToInput converts the request into service input.
func (r *ItemRequest) ToInput() (item.Input, error) {
	price, err := types.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return item.Input{}, apperror.NewValidation("unitPrice must be a decimal number").
			WithDetail("field", "unitPrice")
	}
	rate := types.Zero()
	if r.TaxRate != "" {
		rate, err = types.NewMoneyFromString(r.TaxRate)
		if err != nil {
			return item.Input{}, apperror.NewValidation("taxRate must be a decimal number").
				WithDetail("field", "taxRate")
		}
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return item.Input{
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   price,
		TaxRate:     rate,
		Unit:        r.Unit,
		Active:      active,
	}, nil
}
