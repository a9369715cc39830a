package ledger

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Every repository method takes the caller's businessID and scopes the query
// with it. A row belonging to another business is reported as not found, never
// as forbidden.

// InvoiceRepository persists invoices and their items.
type InvoiceRepository interface {
	// Create inserts the invoice and its items.
	Create(ctx context.Context, inv *Invoice) error

	// GetByID loads the invoice with items.
	GetByID(ctx context.Context, businessID, invoiceID id.ID) (*Invoice, error)

	// GetForUpdate loads the invoice with items under FOR UPDATE,
	// serializing concurrent payment application. Must run inside a
	// transaction.
	GetForUpdate(ctx context.Context, businessID, invoiceID id.ID) (*Invoice, error)

	// Update writes header fields guarded by the version column and replaces
	// the item set wholesale. Returns ConcurrencyConflict when the stored
	// version moved.
	Update(ctx context.Context, inv *Invoice) error

	// UpdatePaymentState writes only the money-derived columns (amount_paid,
	// balance_due, status) guarded by version. Items are untouched.
	UpdatePaymentState(ctx context.Context, inv *Invoice) error

	// Delete removes the invoice and its items.
	Delete(ctx context.Context, businessID, invoiceID id.ID) error

	// List returns invoices matching filter, items not loaded.
	List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Invoice], error)

	// CountByCustomer reports how many invoices reference a customer.
	CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error)
}

// QuoteRepository persists quotes and their items.
type QuoteRepository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, businessID, quoteID id.ID) (*Quote, error)

	// GetForUpdate locks the quote row for conversion. Must run inside a
	// transaction.
	GetForUpdate(ctx context.Context, businessID, quoteID id.ID) (*Quote, error)

	Update(ctx context.Context, q *Quote) error
	Delete(ctx context.Context, businessID, quoteID id.ID) error
	List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Quote], error)
	CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error)
}

// PaymentRepository persists payments. Insert-only by design.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, businessID, paymentID id.ID) (*Payment, error)
	ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]Payment, error)

	// CountByInvoice guards invoice deletion.
	CountByInvoice(ctx context.Context, businessID, invoiceID id.ID) (int64, error)
}

// ReceiptRepository persists receipts. Insert-only by design.
type ReceiptRepository interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, businessID, receiptID id.ID) (*Receipt, error)
	GetByPayment(ctx context.Context, businessID, paymentID id.ID) (*Receipt, error)
	ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]Receipt, error)
}
