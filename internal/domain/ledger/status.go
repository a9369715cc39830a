package ledger

import (
	"fakturo/internal/core/types"
)

// InvoiceStatus is derived from totals, never set directly by callers.
// The only caller-chosen state is DRAFT at creation time.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
)

// DeriveStatus is the single authoritative status derivation.
// It is a pure function of (grandTotal, amountPaid) plus the pre-payment
// base state; every code path that touches invoice money calls it, so the
// thresholds cannot drift between handlers.
//
// PAID requires at least one payment: a zero-total invoice with no payments
// stays in its base state.
func DeriveStatus(grandTotal, amountPaid types.Money, base InvoiceStatus) InvoiceStatus {
	if amountPaid.IsPositive() && amountPaid.GreaterThanOrEqual(grandTotal) {
		return InvoicePaid
	}
	if amountPaid.IsPositive() {
		return InvoicePartiallyPaid
	}
	switch base {
	case InvoiceDraft, InvoiceSent:
		return base
	default:
		// A paid or partially paid invoice whose payments no longer cover
		// the total (e.g. after an enlarging edit) falls back to SENT when
		// amountPaid is zero, which cannot happen through payment ops alone.
		return InvoiceSent
	}
}

// QuoteStatus is the quote lifecycle state.
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "DRAFT"
	QuoteSent      QuoteStatus = "SENT"
	QuoteAccepted  QuoteStatus = "ACCEPTED"
	QuoteRejected  QuoteStatus = "REJECTED"
	QuoteExpired   QuoteStatus = "EXPIRED"
	QuoteConverted QuoteStatus = "CONVERTED"
)

// quoteTransitions lists the allowed quote status transitions.
// CONVERTED is terminal and only reachable through conversion.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:    {QuoteSent},
	QuoteSent:     {QuoteAccepted, QuoteRejected, QuoteExpired},
	QuoteAccepted: {QuoteConverted},
}

// CanTransition reports whether a quote may move from to next.
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s QuoteStatus) IsTerminal() bool {
	return len(quoteTransitions[s]) == 0
}
