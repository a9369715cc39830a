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

// QuoteService manages the quote lifecycle and the quote-to-invoice
// conversion engine.
type QuoteService struct {
	quotes    QuoteRepository
	invoices  InvoiceRepository
	customers CustomerChecker
	numbers   numerator.Generator
	txManager tx.Manager
	audit     Auditor
}

// NewQuoteService creates a QuoteService.
func NewQuoteService(
	quotes QuoteRepository,
	invoices InvoiceRepository,
	customers CustomerChecker,
	numbers numerator.Generator,
	txManager tx.Manager,
	audit Auditor,
) *QuoteService {
	return &QuoteService{
		quotes:    quotes,
		invoices:  invoices,
		customers: customers,
		numbers:   numbers,
		txManager: txManager,
		audit:     audit,
	}
}

// CreateQuoteInput carries caller-supplied quote fields.
type CreateQuoteInput struct {
	CustomerID id.ID
	Currency   string
	IssueDate  time.Time
	ValidUntil time.Time
	Notes      string
	Items      []QuoteItem
}

// Create allocates a daily quote number and persists the quote in one
// transaction.
func (s *QuoteService) Create(ctx context.Context, businessID id.ID, input CreateQuoteInput) (*Quote, error) {
	exists, err := s.customers.Exists(ctx, businessID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("customer", input.CustomerID)
	}

	q := NewQuote(businessID, input.CustomerID, input.Currency)
	if !input.IssueDate.IsZero() {
		q.IssueDate = input.IssueDate
	}
	if !input.ValidUntil.IsZero() {
		q.ValidUntil = input.ValidUntil
	}
	q.Notes = input.Notes
	q.ReplaceItems(input.Items)

	if err := q.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.NextDaily(ctx, numerator.KindQuote, q.IssueDate)
		if err != nil {
			return err
		}
		q.Number = number

		if err := s.quotes.Create(ctx, q); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "create", "quote", q.ID, q)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote created", "quote_id", q.ID, "number", q.Number)
	return q, nil
}

// UpdateQuoteInput carries the editable quote fields.
type UpdateQuoteInput struct {
	IssueDate  time.Time
	ValidUntil time.Time
	Notes      string
	Items      []QuoteItem
	Version    int
}

// Update rewrites the editable fields and item set. Only DRAFT and SENT
// quotes are editable.
func (s *QuoteService) Update(ctx context.Context, businessID, quoteID id.ID, input UpdateQuoteInput) (*Quote, error) {
	var q *Quote

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		q, err = s.quotes.GetForUpdate(ctx, businessID, quoteID)
		if err != nil {
			return err
		}
		if q.Version != input.Version {
			return apperror.NewConcurrencyConflict("quote", quoteID)
		}
		if err := q.CanModify(); err != nil {
			return err
		}

		if !input.IssueDate.IsZero() {
			q.IssueDate = input.IssueDate
		}
		if !input.ValidUntil.IsZero() {
			q.ValidUntil = input.ValidUntil
		}
		q.Notes = input.Notes
		q.ReplaceItems(input.Items)
		q.Touch()

		if err := q.Validate(ctx); err != nil {
			return err
		}
		if err := s.quotes.Update(ctx, q); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "update", "quote", q.ID, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ChangeStatus moves a quote through its lifecycle (SENT, ACCEPTED, REJECTED,
// EXPIRED). CONVERTED is rejected here; only Convert sets it.
func (s *QuoteService) ChangeStatus(ctx context.Context, businessID, quoteID id.ID, next QuoteStatus) (*Quote, error) {
	if next == QuoteConverted {
		return nil, apperror.NewInvalidState("quotes are converted through the conversion operation")
	}

	var q *Quote
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		q, err = s.quotes.GetForUpdate(ctx, businessID, quoteID)
		if err != nil {
			return err
		}
		if err := q.Transition(next); err != nil {
			return err
		}
		if err := s.quotes.Update(ctx, q); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "status", "quote", q.ID, map[string]any{"status": next})
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes a quote. Only drafts may be deleted; everything past DRAFT
// has been seen by a customer and stays on record.
func (s *QuoteService) Delete(ctx context.Context, businessID, quoteID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetForUpdate(ctx, businessID, quoteID)
		if err != nil {
			return err
		}
		if q.Status != QuoteDraft {
			return apperror.NewInvalidState("only draft quotes can be deleted").
				WithDetail("quote_id", quoteID.String()).
				WithDetail("status", string(q.Status))
		}
		if err := s.quotes.Delete(ctx, businessID, quoteID); err != nil {
			return err
		}
		return s.audit.Record(ctx, businessID, "delete", "quote", q.ID, nil)
	})
}

// Get loads a quote with its items.
func (s *QuoteService) Get(ctx context.Context, businessID, quoteID id.ID) (*Quote, error) {
	return s.quotes.GetByID(ctx, businessID, quoteID)
}

// List returns a page of quotes.
func (s *QuoteService) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Quote], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	return s.quotes.List(ctx, businessID, filter)
}

// Convert turns an ACCEPTED quote into a new invoice.
//
// One transaction covers the whole engine: the quote row is locked, checked
// for the ACCEPTED state, a daily invoice number is allocated, the invoice is
// minted in SENT with line values copied from the quote, and the quote moves
// to CONVERTED holding the invoice reference. The row lock makes a second
// concurrent Convert see CONVERTED and fail with InvalidState, so a quote
// yields at most one invoice.
func (s *QuoteService) Convert(ctx context.Context, businessID, quoteID id.ID) (*Invoice, error) {
	var inv *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetForUpdate(ctx, businessID, quoteID)
		if err != nil {
			return err
		}
		if q.Status != QuoteAccepted {
			return apperror.NewInvalidState("only accepted quotes can be converted").
				WithDetail("quote_id", quoteID.String()).
				WithDetail("status", string(q.Status))
		}

		inv = NewInvoice(businessID, q.CustomerID, q.Currency, false)
		inv.DueDate = inv.IssueDate.AddDate(0, 0, 30)
		inv.Notes = q.Notes

		items := make([]InvoiceItem, 0, len(q.Items))
		for _, it := range q.Items {
			items = append(items, InvoiceItem{
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				TaxRate:     it.TaxRate,
			})
		}
		inv.ReplaceItems(items)

		number, err := s.numbers.NextDaily(ctx, numerator.KindInvoice, inv.IssueDate)
		if err != nil {
			return err
		}
		inv.Number = number

		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}

		if err := q.Transition(QuoteConverted); err != nil {
			return err
		}
		q.InvoiceID = &inv.ID
		if err := s.quotes.Update(ctx, q); err != nil {
			return err
		}

		return s.audit.Record(ctx, businessID, "convert", "quote", q.ID,
			map[string]any{"invoice_id": inv.ID, "invoice_number": inv.Number})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote converted",
		"quote_id", quoteID, "invoice_id", inv.ID, "invoice_number", inv.Number)
	return inv, nil
}
