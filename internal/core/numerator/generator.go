// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
	"time"
)

// Kind identifies a numbered document kind. The kind is also the sequence
// key prefix, so issued numbers stay stable once a kind is in use.
type Kind string

const (
	KindInvoice Kind = "INV"
	KindReceipt Kind = "RCT"
	KindQuote   Kind = "QT"
)

// Generator mints sequential document numbers.
// This is the domain contract - the PostgreSQL implementation lives in
// the infrastructure layer and must run on the caller's transaction so a
// rolled-back document creation also rolls back the allocation.
//
// Sequence keys carry no business component: numbers are globally unique
// across tenants (preserved behavior, see DESIGN.md).
type Generator interface {
	// NextYearly allocates the next number in the (kind, year) sequence and
	// formats it as PREFIX-YYYY-NNNN (e.g. INV-2025-0007).
	// Used for invoices and receipts.
	NextYearly(ctx context.Context, kind Kind, period time.Time) (string, error)

	// NextDaily allocates the next number in the per-day sequence for kind
	// and formats it as PREFIX-YYYYMMDD-NNN (e.g. QT-20250830-007).
	// Used for quotes and for invoices minted by quote conversion.
	NextDaily(ctx context.Context, kind Kind, period time.Time) (string, error)
}
