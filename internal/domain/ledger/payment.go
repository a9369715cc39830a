package ledger

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// PaymentMethod enumerates accepted settlement channels.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque   PaymentMethod = "CHEQUE"
	MethodOther    PaymentMethod = "OTHER"
)

var validMethods = map[PaymentMethod]bool{
	MethodCash:     true,
	MethodCard:     true,
	MethodTransfer: true,
	MethodCheque:   true,
	MethodOther:    true,
}

// Payment records money applied against a single invoice. Payments are
// immutable once recorded: no update or delete path exists, corrections are
// new payments.
type Payment struct {
	entity.BaseDocument

	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	Amount    types.Money   `db:"amount" json:"amount"`
	Method    PaymentMethod `db:"method" json:"method"`
	Reference string        `db:"reference" json:"reference,omitempty"`
	PaidAt    time.Time     `db:"paid_at" json:"paidAt"`
}

// NewPayment creates a payment against an invoice.
func NewPayment(businessID, invoiceID id.ID, amount types.Money, method PaymentMethod, reference string, paidAt time.Time) *Payment {
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}
	return &Payment{
		BaseDocument: entity.NewBaseDocument(businessID),
		InvoiceID:    invoiceID,
		Amount:       amount,
		Method:       method,
		Reference:    reference,
		PaidAt:       paidAt,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.BusinessID) {
		return apperror.NewValidation("business is required").
			WithDetail("field", "businessId")
	}
	if id.IsNil(p.InvoiceID) {
		return apperror.NewValidation("invoice is required").
			WithDetail("field", "invoiceId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewInvalidAmount(p.Amount.String())
	}
	if !validMethods[p.Method] {
		return apperror.NewValidation("unknown payment method").
			WithDetail("field", "method").
			WithDetail("method", string(p.Method))
	}
	return nil
}

var _ entity.Validatable = (*Payment)(nil)

// Receipt is the numbered acknowledgement minted for exactly one payment.
// Created atomically with its payment, never separately.
type Receipt struct {
	entity.BaseDocument

	PaymentID id.ID `db:"payment_id" json:"paymentId"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	Number   string      `db:"number" json:"number"`
	Amount   types.Money `db:"amount" json:"amount"`
	IssuedAt time.Time   `db:"issued_at" json:"issuedAt"`
}

// NewReceipt creates a receipt for a recorded payment.
func NewReceipt(p *Payment, number string) *Receipt {
	return &Receipt{
		BaseDocument: entity.NewBaseDocument(p.BusinessID),
		PaymentID:    p.ID,
		InvoiceID:    p.InvoiceID,
		Number:       number,
		Amount:       p.Amount,
		IssuedAt:     time.Now().UTC(),
	}
}
