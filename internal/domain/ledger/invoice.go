// Package ledger provides the financial document core: invoices, quotes,
// payments, receipts, and the rules that keep their numbers consistent.
package ledger

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Invoice is the receivable-bearing document.
//
// Invariants (enforced by RecalculateTotals and the payment engine, verified
// by Validate):
//   - grandTotal == subtotal + taxTotal, recomputed from items
//   - amountPaid == sum of linked payment amounts
//   - balanceDue == max(0, grandTotal - amountPaid)
type Invoice struct {
	entity.BaseDocument

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Number is auto-generated, unique within kind+period
	Number   string `db:"number" json:"number"`
	Currency string `db:"currency" json:"currency"`

	IssueDate time.Time `db:"issue_date" json:"issueDate"`
	DueDate   time.Time `db:"due_date" json:"dueDate"`

	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	TaxTotal   types.Money `db:"tax_total" json:"taxTotal"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`
	BalanceDue types.Money `db:"balance_due" json:"balanceDue"`

	Status InvoiceStatus `db:"status" json:"status"`
	Notes  string        `db:"notes" json:"notes,omitempty"`

	// Items are owned by the invoice and cascade-deleted with it
	Items []InvoiceItem `db:"-" json:"items"`
}

// InvoiceItem is a single line. lineTotal = quantity * unitPrice; tax is
// applied at the invoice aggregate, not per line.
type InvoiceItem struct {
	ItemID      id.ID       `db:"item_id" json:"itemId"`
	LineNo      int         `db:"line_no" json:"lineNo"`
	Description string      `db:"description" json:"description"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	TaxRate     types.Rate  `db:"tax_rate" json:"taxRate"`
	LineTotal   types.Money `db:"line_total" json:"lineTotal"`
}

// NewInvoice creates an invoice in its initial unpaid state.
// Status is SENT unless the caller explicitly flags a draft.
func NewInvoice(businessID, customerID id.ID, currency string, asDraft bool) *Invoice {
	status := InvoiceSent
	if asDraft {
		status = InvoiceDraft
	}
	now := time.Now().UTC()
	return &Invoice{
		BaseDocument: entity.NewBaseDocument(businessID),
		CustomerID:   customerID,
		Currency:     currency,
		IssueDate:    now,
		DueDate:      now,
		Status:       status,
		Subtotal:     types.Zero(),
		TaxTotal:     types.Zero(),
		GrandTotal:   types.Zero(),
		AmountPaid:   types.Zero(),
		BalanceDue:   types.Zero(),
		Items:        make([]InvoiceItem, 0),
	}
}

// AddItem appends a line and recalculates totals.
func (inv *Invoice) AddItem(description string, quantity, unitPrice types.Money, taxRate types.Rate) {
	item := InvoiceItem{
		ItemID:      id.New(),
		LineNo:      len(inv.Items) + 1,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		LineTotal:   quantity.Mul(unitPrice),
	}
	inv.Items = append(inv.Items, item)
	inv.RecalculateTotals()
}

// ReplaceItems swaps the full item set (wholesale, never patched in place)
// and recalculates totals. Fresh item IDs are assigned.
func (inv *Invoice) ReplaceItems(items []InvoiceItem) {
	inv.Items = make([]InvoiceItem, 0, len(items))
	for _, it := range items {
		inv.Items = append(inv.Items, InvoiceItem{
			ItemID:      id.New(),
			LineNo:      len(inv.Items) + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.Quantity.Mul(it.UnitPrice),
		})
	}
	inv.RecalculateTotals()
}

// RecalculateTotals recomputes subtotal/taxTotal/grandTotal from items and
// re-derives balance and status from the current amountPaid. Totals are
// never hand-edited.
func (inv *Invoice) RecalculateTotals() {
	subtotal := types.Zero()
	taxTotal := types.Zero()
	for i := range inv.Items {
		line := &inv.Items[i]
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(line.LineTotal)
		taxTotal = taxTotal.Add(line.LineTotal.Mul(line.TaxRate))
	}
	inv.Subtotal = subtotal
	inv.TaxTotal = taxTotal
	inv.GrandTotal = subtotal.Add(taxTotal)
	inv.BalanceDue = types.ClampNonNegative(inv.GrandTotal.Sub(inv.AmountPaid))
	inv.Status = DeriveStatus(inv.GrandTotal, inv.AmountPaid, inv.Status)
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if id.IsNil(inv.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if inv.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}
	if len(inv.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, item := range inv.Items {
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
		if item.TaxRate.IsNegative() {
			return apperror.NewValidation("item tax rate must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return apperror.NewValidation("due date must not precede issue date").
			WithDetail("field", "dueDate")
	}
	return nil
}

var _ entity.Validatable = (*Invoice)(nil)
