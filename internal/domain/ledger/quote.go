package ledger

import (
	"context"
	"fmt"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Quote mirrors the invoice totals shape but carries its own lifecycle.
// CONVERTED is terminal and set only by the conversion engine, which also
// guarantees the quote converts at most once.
type Quote struct {
	entity.BaseDocument

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	Number   string `db:"number" json:"number"`
	Currency string `db:"currency" json:"currency"`

	IssueDate  time.Time `db:"issue_date" json:"issueDate"`
	ValidUntil time.Time `db:"valid_until" json:"validUntil"`

	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	TaxTotal   types.Money `db:"tax_total" json:"taxTotal"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	Status QuoteStatus `db:"status" json:"status"`
	Notes  string      `db:"notes" json:"notes,omitempty"`

	// InvoiceID references the invoice minted by conversion (set once).
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	Items []QuoteItem `db:"-" json:"items"`
}

// QuoteItem is a quote line; same shape as InvoiceItem so conversion can
// copy values verbatim into fresh invoice rows.
type QuoteItem struct {
	ItemID      id.ID       `db:"item_id" json:"itemId"`
	LineNo      int         `db:"line_no" json:"lineNo"`
	Description string      `db:"description" json:"description"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	TaxRate     types.Rate  `db:"tax_rate" json:"taxRate"`
	LineTotal   types.Money `db:"line_total" json:"lineTotal"`
}

// NewQuote creates a draft quote.
func NewQuote(businessID, customerID id.ID, currency string) *Quote {
	now := time.Now().UTC()
	return &Quote{
		BaseDocument: entity.NewBaseDocument(businessID),
		CustomerID:   customerID,
		Currency:     currency,
		IssueDate:    now,
		ValidUntil:   now.AddDate(0, 1, 0),
		Status:       QuoteDraft,
		Subtotal:     types.Zero(),
		TaxTotal:     types.Zero(),
		GrandTotal:   types.Zero(),
		Items:        make([]QuoteItem, 0),
	}
}

// AddItem appends a line and recalculates totals.
func (q *Quote) AddItem(description string, quantity, unitPrice types.Money, taxRate types.Rate) {
	item := QuoteItem{
		ItemID:      id.New(),
		LineNo:      len(q.Items) + 1,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		LineTotal:   quantity.Mul(unitPrice),
	}
	q.Items = append(q.Items, item)
	q.RecalculateTotals()
}

// ReplaceItems swaps the full item set and recalculates totals.
func (q *Quote) ReplaceItems(items []QuoteItem) {
	q.Items = make([]QuoteItem, 0, len(items))
	for _, it := range items {
		q.Items = append(q.Items, QuoteItem{
			ItemID:      id.New(),
			LineNo:      len(q.Items) + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.Quantity.Mul(it.UnitPrice),
		})
	}
	q.RecalculateTotals()
}

// RecalculateTotals recomputes totals from items.
func (q *Quote) RecalculateTotals() {
	subtotal := types.Zero()
	taxTotal := types.Zero()
	for i := range q.Items {
		line := &q.Items[i]
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(line.LineTotal)
		taxTotal = taxTotal.Add(line.LineTotal.Mul(line.TaxRate))
	}
	q.Subtotal = subtotal
	q.TaxTotal = taxTotal
	q.GrandTotal = subtotal.Add(taxTotal)
}

// Transition moves the quote to next, or fails with InvalidState.
func (q *Quote) Transition(next QuoteStatus) error {
	if !q.Status.CanTransition(next) {
		return apperror.NewInvalidState(
			fmt.Sprintf("quote cannot move from %s to %s", q.Status, next),
		).WithDetail("quote_id", q.ID.String()).
			WithDetail("status", string(q.Status))
	}
	q.Status = next
	q.Touch()
	return nil
}

// CanModify reports whether items and fields may still change.
// Only DRAFT and SENT quotes are editable.
func (q *Quote) CanModify() error {
	if q.Status != QuoteDraft && q.Status != QuoteSent {
		return apperror.NewInvalidState(
			fmt.Sprintf("quote in %s state cannot be modified", q.Status),
		).WithDetail("quote_id", q.ID.String())
	}
	return nil
}

// Validate implements entity.Validatable.
func (q *Quote) Validate(ctx context.Context) error {
	if id.IsNil(q.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if id.IsNil(q.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if q.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}
	if len(q.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, item := range q.Items {
		if item.Description == "" {
			return apperror.NewValidation("item description is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("item unit price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

var _ entity.Validatable = (*Quote)(nil)
