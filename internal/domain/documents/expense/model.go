// Package expense provides the outgoing-money side of the ledger: simple
// categorized spend records with no lines and no lifecycle.
package expense

import (
	"context"
	"strings"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Expense is a single spend record.
type Expense struct {
	entity.BaseDocument

	Category    string      `db:"category" json:"category"`
	Description string      `db:"description" json:"description,omitempty"`
	Amount      types.Money `db:"amount" json:"amount"`
	Currency    string      `db:"currency" json:"currency"`
	SpentAt     time.Time   `db:"spent_at" json:"spentAt"`
}

// New creates an expense record.
func New(businessID id.ID, category, currency string, amount types.Money, spentAt time.Time) *Expense {
	if spentAt.IsZero() {
		spentAt = time.Now().UTC()
	}
	return &Expense{
		BaseDocument: entity.NewBaseDocument(businessID),
		Category:     category,
		Currency:     currency,
		Amount:       amount,
		SpentAt:      spentAt,
	}
}

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if id.IsNil(e.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if strings.TrimSpace(e.Category) == "" {
		return apperror.NewValidation("expense category is required").
			WithDetail("field", "category")
	}
	if e.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewInvalidAmount(e.Amount.String())
	}
	return nil
}

var _ entity.Validatable = (*Expense)(nil)
