package dto

import (
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
	"fakturo/internal/domain/ledger"
)

// LineRequest is a document line as submitted by clients. Amounts travel as
// strings to keep decimal precision across JSON.
type LineRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unitPrice" binding:"required"`
	TaxRate     string `json:"taxRate"`
}

// ToInvoiceItems converts line requests to invoice items. Totals are left for
// the entity to compute.
func ToInvoiceItems(lines []LineRequest) ([]ledger.InvoiceItem, error) {
	items := make([]ledger.InvoiceItem, 0, len(lines))
	for i, l := range lines {
		qty, price, rate, err := parseLine(l, i)
		if err != nil {
			return nil, err
		}
		items = append(items, ledger.InvoiceItem{
			Description: l.Description,
			Quantity:    qty,
			UnitPrice:   price,
			TaxRate:     rate,
		})
	}
	return items, nil
}

// ToQuoteItems converts line requests to quote items.
func ToQuoteItems(lines []LineRequest) ([]ledger.QuoteItem, error) {
	items := make([]ledger.QuoteItem, 0, len(lines))
	for i, l := range lines {
		qty, price, rate, err := parseLine(l, i)
		if err != nil {
			return nil, err
		}
		items = append(items, ledger.QuoteItem{
			Description: l.Description,
			Quantity:    qty,
			UnitPrice:   price,
			TaxRate:     rate,
		})
	}
	return items, nil
}

func parseLine(l LineRequest, lineIdx int) (qty, price types.Money, rate types.Rate, err error) {
	qty, err = types.NewMoneyFromString(l.Quantity)
	if err != nil {
		return qty, price, rate, apperror.NewValidation("quantity must be a decimal number").
			WithDetail("lineNo", lineIdx+1)
	}
	price, err = types.NewMoneyFromString(l.UnitPrice)
	if err != nil {
		return qty, price, rate, apperror.NewValidation("unitPrice must be a decimal number").
			WithDetail("lineNo", lineIdx+1)
	}
	rate = types.Zero()
	if l.TaxRate != "" {
		rate, err = types.NewMoneyFromString(l.TaxRate)
		if err != nil {
			return qty, price, rate, apperror.NewValidation("taxRate must be a decimal number").
				WithDetail("lineNo", lineIdx+1)
		}
	}
	return qty, price, rate, nil
}

// CreateInvoiceRequest for creating invoices.
type CreateInvoiceRequest struct {
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency" binding:"required,currency_code"`
	IssueDate  *time.Time    `json:"issueDate"`
	DueDate    *time.Time    `json:"dueDate"`
	Notes      string        `json:"notes"`
	AsDraft    bool          `json:"asDraft"`
	Items      []LineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest for updating invoices. Items replace the full set.
type UpdateInvoiceRequest struct {
	IssueDate *time.Time    `json:"issueDate"`
	DueDate   *time.Time    `json:"dueDate"`
	Notes     string        `json:"notes"`
	Items     []LineRequest `json:"items" binding:"required,min=1,dive"`
	Version   int           `json:"version" binding:"required,min=1"`
}

// ApplyPaymentRequest for recording a payment against an invoice.
type ApplyPaymentRequest struct {
	Amount    string     `json:"amount" binding:"required"`
	Method    string     `json:"method" binding:"required"`
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paidAt"`
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// ToCreateInput converts the request into service input.
func (r *CreateInvoiceRequest) ToCreateInput() (ledger.CreateInvoiceInput, error) {
	items, err := ToInvoiceItems(r.Items)
	if err != nil {
		return ledger.CreateInvoiceInput{}, err
	}
	customerID, err := parseID(r.CustomerID, "customerId")
	if err != nil {
		return ledger.CreateInvoiceInput{}, err
	}
	return ledger.CreateInvoiceInput{
		CustomerID: customerID,
		Currency:   r.Currency,
		IssueDate:  timeOrZero(r.IssueDate),
		DueDate:    timeOrZero(r.DueDate),
		Notes:      r.Notes,
		AsDraft:    r.AsDraft,
		Items:      items,
	}, nil
}

// ToUpdateInput converts the request into service input.
func (r *UpdateInvoiceRequest) ToUpdateInput() (ledger.UpdateInvoiceInput, error) {
	items, err := ToInvoiceItems(r.Items)
	if err != nil {
		return ledger.UpdateInvoiceInput{}, err
	}
	return ledger.UpdateInvoiceInput{
		IssueDate: timeOrZero(r.IssueDate),
		DueDate:   timeOrZero(r.DueDate),
		Notes:     r.Notes,
		Items:     items,
		Version:   r.Version,
	}, nil
}

// ToApplyInput converts the request into service input.
func (r *ApplyPaymentRequest) ToApplyInput() ledger.ApplyPaymentInput {
	return ledger.ApplyPaymentInput{
		Amount:    r.Amount,
		Method:    ledger.PaymentMethod(r.Method),
		Reference: r.Reference,
		PaidAt:    timeOrZero(r.PaidAt),
	}
}
