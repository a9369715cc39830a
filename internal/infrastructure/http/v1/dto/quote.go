package dto

import (
	"time"

	"fakturo/internal/domain/ledger"
)

// CreateQuoteRequest for creating quotes.
type CreateQuoteRequest struct {
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency" binding:"required,currency_code"`
	IssueDate  *time.Time    `json:"issueDate"`
	ValidUntil *time.Time    `json:"validUntil"`
	Notes      string        `json:"notes"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuoteRequest for updating quotes. Items replace the full set.
type UpdateQuoteRequest struct {
	IssueDate  *time.Time    `json:"issueDate"`
	ValidUntil *time.Time    `json:"validUntil"`
	Notes      string        `json:"notes"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
	Version    int           `json:"version" binding:"required,min=1"`
}

// ChangeQuoteStatusRequest moves a quote through its lifecycle.
type ChangeQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SENT ACCEPTED REJECTED EXPIRED"`
}

// ToCreateInput converts the request into service input.
func (r *CreateQuoteRequest) ToCreateInput() (ledger.CreateQuoteInput, error) {
	items, err := ToQuoteItems(r.Items)
	if err != nil {
		return ledger.CreateQuoteInput{}, err
	}
	customerID, err := parseID(r.CustomerID, "customerId")
	if err != nil {
		return ledger.CreateQuoteInput{}, err
	}
	return ledger.CreateQuoteInput{
		CustomerID: customerID,
		Currency:   r.Currency,
		IssueDate:  timeOrZero(r.IssueDate),
		ValidUntil: timeOrZero(r.ValidUntil),
		Notes:      r.Notes,
		Items:      items,
	}, nil
}

// ToUpdateInput converts the request into service input.
func (r *UpdateQuoteRequest) ToUpdateInput() (ledger.UpdateQuoteInput, error) {
	items, err := ToQuoteItems(r.Items)
	if err != nil {
		return ledger.UpdateQuoteInput{}, err
	}
	return ledger.UpdateQuoteInput{
		IssueDate:  timeOrZero(r.IssueDate),
		ValidUntil: timeOrZero(r.ValidUntil),
		Notes:      r.Notes,
		Items:      items,
		Version:    r.Version,
	}, nil
}
