package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/domain"
)

// fakeTx serializes transactional sections with a mutex, standing in for the
// row locks the real manager relies on. Rollback is not simulated; tests only
// assert on successful paths or on failures that happen before any write.
type fakeTx struct {
	mu sync.Mutex
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[id.ID]*Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[id.ID]*Invoice)}
}

func copyInvoice(inv *Invoice) *Invoice {
	out := *inv
	out.Items = append([]InvoiceItem(nil), inv.Items...)
	return &out
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) get(businessID, invoiceID id.ID) (*Invoice, error) {
	inv, ok := r.invoices[invoiceID]
	if !ok || inv.BusinessID != businessID {
		return nil, apperror.NewNotFound("invoice", invoiceID)
	}
	return copyInvoice(inv), nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, businessID, invoiceID id.ID) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(businessID, invoiceID)
}

func (r *fakeInvoiceRepo) GetForUpdate(ctx context.Context, businessID, invoiceID id.ID) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(businessID, invoiceID)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[inv.ID]
	if !ok || stored.BusinessID != inv.BusinessID {
		return apperror.NewNotFound("invoice", inv.ID)
	}
	if stored.Version != inv.Version-1 {
		return apperror.NewConcurrencyConflict("invoice", inv.ID)
	}
	r.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) UpdatePaymentState(ctx context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[inv.ID]
	if !ok || stored.BusinessID != inv.BusinessID {
		return apperror.NewNotFound("invoice", inv.ID)
	}
	if stored.Version != inv.Version-1 {
		return apperror.NewConcurrencyConflict("invoice", inv.ID)
	}
	stored.AmountPaid = inv.AmountPaid
	stored.BalanceDue = inv.BalanceDue
	stored.Status = inv.Status
	stored.UpdatedAt = inv.UpdatedAt
	stored.Version = inv.Version
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, businessID, invoiceID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(businessID, invoiceID); err != nil {
		return err
	}
	delete(r.invoices, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Invoice], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &domain.ListResult[Invoice]{
		Items:  make([]Invoice, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, inv := range r.invoices {
		if inv.BusinessID == businessID {
			result.Items = append(result.Items, *copyInvoice(inv))
			result.TotalCount++
		}
	}
	return result, nil
}

func (r *fakeInvoiceRepo) CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.invoices {
		if inv.BusinessID == businessID && inv.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[id.ID]*Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[id.ID]*Quote)}
}

func copyQuote(q *Quote) *Quote {
	out := *q
	out.Items = append([]QuoteItem(nil), q.Items...)
	if q.InvoiceID != nil {
		ref := *q.InvoiceID
		out.InvoiceID = &ref
	}
	return &out
}

func (r *fakeQuoteRepo) Create(ctx context.Context, q *Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID] = copyQuote(q)
	return nil
}

func (r *fakeQuoteRepo) get(businessID, quoteID id.ID) (*Quote, error) {
	q, ok := r.quotes[quoteID]
	if !ok || q.BusinessID != businessID {
		return nil, apperror.NewNotFound("quote", quoteID)
	}
	return copyQuote(q), nil
}

func (r *fakeQuoteRepo) GetByID(ctx context.Context, businessID, quoteID id.ID) (*Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(businessID, quoteID)
}

func (r *fakeQuoteRepo) GetForUpdate(ctx context.Context, businessID, quoteID id.ID) (*Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(businessID, quoteID)
}

func (r *fakeQuoteRepo) Update(ctx context.Context, q *Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.quotes[q.ID]
	if !ok || stored.BusinessID != q.BusinessID {
		return apperror.NewNotFound("quote", q.ID)
	}
	if stored.Version != q.Version-1 {
		return apperror.NewConcurrencyConflict("quote", q.ID)
	}
	r.quotes[q.ID] = copyQuote(q)
	return nil
}

func (r *fakeQuoteRepo) Delete(ctx context.Context, businessID, quoteID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(businessID, quoteID); err != nil {
		return err
	}
	delete(r.quotes, quoteID)
	return nil
}

func (r *fakeQuoteRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Quote], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &domain.ListResult[Quote]{
		Items:  make([]Quote, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, q := range r.quotes {
		if q.BusinessID == businessID {
			result.Items = append(result.Items, *copyQuote(q))
			result.TotalCount++
		}
	}
	return result, nil
}

func (r *fakeQuoteRepo) CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, q := range r.quotes {
		if q.BusinessID == businessID && q.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[id.ID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[id.ID]*Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *p
	r.payments[p.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, businessID, paymentID id.ID) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok || p.BusinessID != businessID {
		return nil, apperror.NewNotFound("payment", paymentID)
	}
	out := *p
	return &out, nil
}

func (r *fakePaymentRepo) ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Payment, 0)
	for _, p := range r.payments {
		if p.BusinessID == businessID && p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) CountByInvoice(ctx context.Context, businessID, invoiceID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.payments {
		if p.BusinessID == businessID && p.InvoiceID == invoiceID {
			count++
		}
	}
	return count, nil
}

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts map[id.ID]*Receipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[id.ID]*Receipt)}
}

func (r *fakeReceiptRepo) Create(ctx context.Context, rc *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rc
	r.receipts[rc.ID] = &stored
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, businessID, receiptID id.ID) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.receipts[receiptID]
	if !ok || rc.BusinessID != businessID {
		return nil, apperror.NewNotFound("receipt", receiptID)
	}
	out := *rc
	return &out, nil
}

func (r *fakeReceiptRepo) GetByPayment(ctx context.Context, businessID, paymentID id.ID) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rc := range r.receipts {
		if rc.BusinessID == businessID && rc.PaymentID == paymentID {
			out := *rc
			return &out, nil
		}
	}
	return nil, apperror.NewNotFound("receipt", paymentID)
}

func (r *fakeReceiptRepo) ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Receipt, 0)
	for _, rc := range r.receipts {
		if rc.BusinessID == businessID && rc.InvoiceID == invoiceID {
			out = append(out, *rc)
		}
	}
	return out, nil
}

// fakeCustomers reports every customer in known as existing.
type fakeCustomers struct {
	known map[id.ID]bool
}

func (f *fakeCustomers) Exists(ctx context.Context, businessID, customerID id.ID) (bool, error) {
	return f.known[customerID], nil
}

type nopAuditor struct{}

func (nopAuditor) Record(ctx context.Context, businessID id.ID, action, entityName string, entityID id.ID, payload any) error {
	return nil
}

// seqNumbers allocates from in-memory counters using the production formats.
type seqNumbers struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newSeqNumbers() *seqNumbers {
	return &seqNumbers{seqs: make(map[string]int64)}
}

func (s *seqNumbers) next(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[key]++
	return s.seqs[key]
}

func (s *seqNumbers) NextYearly(ctx context.Context, kind numerator.Kind, period time.Time) (string, error) {
	seq := s.next(fmt.Sprintf("%s:%d", numerator.YearlyKey(kind), period.Year()))
	return numerator.FormatYearly(kind, period, seq), nil
}

func (s *seqNumbers) NextDaily(ctx context.Context, kind numerator.Kind, period time.Time) (string, error) {
	seq := s.next(numerator.DailyKey(kind, period))
	return numerator.FormatDaily(kind, period, seq), nil
}

// fixture bundles the ledger services over in-memory storage.
type fixture struct {
	businessID id.ID
	customerID id.ID

	invoices *fakeInvoiceRepo
	quotes   *fakeQuoteRepo
	payments *fakePaymentRepo
	receipts *fakeReceiptRepo
	numbers  *seqNumbers

	invoiceService *InvoiceService
	paymentService *PaymentService
	quoteService   *QuoteService
}

func newFixture() *fixture {
	businessID := id.New()
	customerID := id.New()

	invoices := newFakeInvoiceRepo()
	quotes := newFakeQuoteRepo()
	payments := newFakePaymentRepo()
	receipts := newFakeReceiptRepo()
	numbers := newSeqNumbers()
	customers := &fakeCustomers{known: map[id.ID]bool{customerID: true}}
	txm := &fakeTx{}
	audit := nopAuditor{}

	return &fixture{
		businessID:     businessID,
		customerID:     customerID,
		invoices:       invoices,
		quotes:         quotes,
		payments:       payments,
		receipts:       receipts,
		numbers:        numbers,
		invoiceService: NewInvoiceService(invoices, payments, customers, numbers, txm, audit),
		paymentService: NewPaymentService(invoices, payments, receipts, numbers, txm, audit),
		quoteService:   NewQuoteService(quotes, invoices, customers, numbers, txm, audit),
	}
}
