package dto

import (
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
	"fakturo/internal/domain/documents/expense"
)

// ExpenseRequest for creating and updating expenses.
type ExpenseRequest struct {
	Category    string     `json:"category" binding:"required"`
	Description string     `json:"description"`
	Amount      string     `json:"amount" binding:"required"`
	Currency    string     `json:"currency" binding:"required,currency_code"`
	SpentAt     *time.Time `json:"spentAt"`
}

// ToInput converts the request into service input.
func (r *ExpenseRequest) ToInput() (expense.Input, error) {
	amount, err := types.NewMoneyFromString(r.Amount)
	if err != nil {
		return expense.Input{}, apperror.NewValidation("amount must be a decimal number").
			WithDetail("field", "amount")
	}
	return expense.Input{
		Category:    r.Category,
		Description: r.Description,
		Amount:      amount,
		Currency:    r.Currency,
		SpentAt:     timeOrZero(r.SpentAt),
	}, nil
}
