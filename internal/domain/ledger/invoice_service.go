package ledger

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
	"fakturo/pkg/logger"
)

// CustomerChecker verifies a customer exists within the caller's business.
// Implemented by the customer repository; declared here to keep the ledger
// package free of catalog imports.
type CustomerChecker interface {
	Exists(ctx context.Context, businessID, customerID id.ID) (bool, error)
}

// Auditor records domain actions for the audit trail.
type Auditor interface {
	Record(ctx context.Context, businessID id.ID, action, entityName string, entityID id.ID, payload any) error
}

// InvoiceService manages the invoice lifecycle. Numbering, totals and status
// are all service-side; clients never supply them.
type InvoiceService struct {
	invoices  InvoiceRepository
	payments  PaymentRepository
	customers CustomerChecker
	numbers   numerator.Generator
	txManager tx.Manager
	audit     Auditor
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(
	invoices InvoiceRepository,
	payments PaymentRepository,
	customers CustomerChecker,
	numbers numerator.Generator,
	txManager tx.Manager,
	audit Auditor,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		payments:  payments,
		customers: customers,
		numbers:   numbers,
		txManager: txManager,
		audit:     audit,
	}
}

// CreateInvoiceInput carries caller-supplied invoice fields. Totals and the
// document number are computed, never accepted.
type CreateInvoiceInput struct {
	CustomerID id.ID
	Currency   string
	IssueDate  time.Time
	DueDate    time.Time
	Notes      string
	AsDraft    bool
	Items      []InvoiceItem
}

// Create allocates a number and persists the invoice with its items in one
// transaction. A rolled-back create leaves a gap in the sequence, which the
// numbering scheme tolerates (gaps allowed, duplicates not).
func (s *InvoiceService) Create(ctx context.Context, businessID id.ID, input CreateInvoiceInput) (*Invoice, error) {
	exists, err := s.customers.Exists(ctx, businessID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("customer", input.CustomerID)
	}

	inv := NewInvoice(businessID, input.CustomerID, input.Currency, input.AsDraft)
	if !input.IssueDate.IsZero() {
		inv.IssueDate = input.IssueDate
	}
	if !input.DueDate.IsZero() {
		inv.DueDate = input.DueDate
	} else {
		inv.DueDate = inv.IssueDate.AddDate(0, 0, 30)
	}
	inv.Notes = input.Notes
	inv.ReplaceItems(input.Items)

	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.NextYearly(ctx, numerator.KindInvoice, inv.IssueDate)
		if err != nil {
			return err
		}
		inv.Number = number

		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "create", "invoice", inv.ID, inv)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice created",
		"invoice_id", inv.ID, "number", inv.Number, "grand_total", inv.GrandTotal)
	return inv, nil
}

// UpdateInvoiceInput carries the editable invoice fields. Items replace the
// existing set wholesale.
type UpdateInvoiceInput struct {
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
	Items     []InvoiceItem

	// Version is the version the caller last read; stale writes conflict.
	Version int
}

// Update rewrites the editable fields and item set, recomputes totals and
// re-derives status against existing payments. The number never changes.
func (s *InvoiceService) Update(ctx context.Context, businessID, invoiceID id.ID, input UpdateInvoiceInput) (*Invoice, error) {
	var inv *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoices.GetForUpdate(ctx, businessID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Version != input.Version {
			return apperror.NewConcurrencyConflict("invoice", invoiceID)
		}
		if inv.Status == InvoicePaid {
			return apperror.NewInvalidState("paid invoice cannot be modified").
				WithDetail("invoice_id", invoiceID.String())
		}

		if !input.IssueDate.IsZero() {
			inv.IssueDate = input.IssueDate
		}
		if !input.DueDate.IsZero() {
			inv.DueDate = input.DueDate
		}
		inv.Notes = input.Notes
		inv.ReplaceItems(input.Items)
		inv.Touch()

		if err := inv.Validate(ctx); err != nil {
			return err
		}
		if err := s.invoices.Update(ctx, inv); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "update", "invoice", inv.ID, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an invoice. Blocked once any payment references it; the
// payment trail outlives edit intent.
func (s *InvoiceService) Delete(ctx context.Context, businessID, invoiceID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, businessID, invoiceID)
		if err != nil {
			return err
		}
		count, err := s.payments.CountByInvoice(ctx, businessID, invoiceID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.NewReferentialConflict("invoice",
				"invoice with recorded payments cannot be deleted").
				WithDetail("invoice_id", invoiceID.String()).
				WithDetail("payments", count)
		}
		if err := s.invoices.Delete(ctx, businessID, invoiceID); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "delete", "invoice", inv.ID, nil)
	})
}

// Get loads an invoice with its items.
func (s *InvoiceService) Get(ctx context.Context, businessID, invoiceID id.ID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, businessID, invoiceID)
}

// List returns a page of invoices.
func (s *InvoiceService) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Invoice], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	return s.invoices.List(ctx, businessID, filter)
}

// ListPayments returns the payments recorded against an invoice.
func (s *InvoiceService) ListPayments(ctx context.Context, businessID, invoiceID id.ID) ([]Payment, error) {
	if _, err := s.invoices.GetByID(ctx, businessID, invoiceID); err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, businessID, invoiceID)
}
