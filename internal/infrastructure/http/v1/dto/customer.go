package dto

import (
	"fakturo/internal/domain/catalogs/customer"
)

// CustomerRequest for creating and updating customers.
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
}

// ToInput converts the request into service input.
func (r *CustomerRequest) ToInput() customer.Input {
	return customer.Input{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		TaxID:   r.TaxID,
	}
}
