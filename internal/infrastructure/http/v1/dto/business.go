package dto

import (
	"fakturo/internal/domain/business"
)

// BusinessRequest for creating and updating businesses.
type BusinessRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address"`
	TaxID    string `json:"taxId"`
	Currency string `json:"currency" binding:"required,currency_code"`
}

// ToInput converts the request into service input.
func (r *BusinessRequest) ToInput() business.Input {
	return business.Input{
		Name:     r.Name,
		Email:    r.Email,
		Address:  r.Address,
		TaxID:    r.TaxID,
		Currency: r.Currency,
	}
}
