package ledger

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/core/tx"
	"fakturo/internal/core/types"
	"fakturo/pkg/logger"
)

// PaymentService applies payments to invoices. Every application runs in a
// single transaction: payment row, invoice money columns, receipt row and
// number allocation all commit or roll back together.
type PaymentService struct {
	invoices  InvoiceRepository
	payments  PaymentRepository
	receipts  ReceiptRepository
	numbers   numerator.Generator
	txManager tx.Manager
	audit     Auditor
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(
	invoices InvoiceRepository,
	payments PaymentRepository,
	receipts ReceiptRepository,
	numbers numerator.Generator,
	txManager tx.Manager,
	audit Auditor,
) *PaymentService {
	return &PaymentService{
		invoices:  invoices,
		payments:  payments,
		receipts:  receipts,
		numbers:   numbers,
		txManager: txManager,
		audit:     audit,
	}
}

// ApplyPaymentInput carries caller-supplied payment fields.
type ApplyPaymentInput struct {
	Amount    string
	Method    PaymentMethod
	Reference string
	PaidAt    time.Time
}

// ApplyPaymentResult bundles the records one application produces.
type ApplyPaymentResult struct {
	Invoice *Invoice `json:"invoice"`
	Payment *Payment `json:"payment"`
	Receipt *Receipt `json:"receipt"`
}

// ApplyPayment records a payment against an invoice and mints its receipt.
//
// The invoice row is locked for the duration, so concurrent applications to
// the same invoice serialize; each sees the balance left by the previous one.
// Overpayment is accepted: amountPaid keeps the full sum, balanceDue clamps
// at zero. Retries up to three times on optimistic-lock conflicts.
func (s *PaymentService) ApplyPayment(ctx context.Context, businessID, invoiceID id.ID, input ApplyPaymentInput) (*ApplyPaymentResult, error) {
	amount, err := types.NewMoneyFromString(input.Amount)
	if err != nil {
		return nil, apperror.NewValidation("amount must be a decimal number").
			WithDetail("field", "amount").
			WithDetail("amount", input.Amount)
	}
	if !amount.IsPositive() {
		return nil, apperror.NewInvalidAmount(amount.String())
	}

	var result *ApplyPaymentResult
	err = withConflictRetry(ctx, "apply_payment", func(ctx context.Context) error {
		var txErr error
		result, txErr = s.applyOnce(ctx, businessID, invoiceID, amount, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment applied",
		"invoice_id", invoiceID,
		"payment_id", result.Payment.ID,
		"receipt", result.Receipt.Number,
		"amount", result.Payment.Amount,
		"status", result.Invoice.Status)
	return result, nil
}

// applyOnce is one transactional attempt of ApplyPayment.
func (s *PaymentService) applyOnce(ctx context.Context, businessID, invoiceID id.ID, amount types.Money, input ApplyPaymentInput) (*ApplyPaymentResult, error) {
	var result *ApplyPaymentResult

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, businessID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == InvoiceDraft {
			return apperror.NewInvalidState("draft invoice cannot accept payments").
				WithDetail("invoice_id", invoiceID.String())
		}

		payment := NewPayment(businessID, invoiceID, amount, input.Method, input.Reference, input.PaidAt)
		if err := payment.Validate(ctx); err != nil {
			return err
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}

		inv.AmountPaid = inv.AmountPaid.Add(amount)
		inv.BalanceDue = types.ClampNonNegative(inv.GrandTotal.Sub(inv.AmountPaid))
		inv.Status = DeriveStatus(inv.GrandTotal, inv.AmountPaid, inv.Status)
		inv.Touch()
		if err := s.invoices.UpdatePaymentState(ctx, inv); err != nil {
			return err
		}

		number, err := s.numbers.NextYearly(ctx, numerator.KindReceipt, payment.PaidAt)
		if err != nil {
			return err
		}
		receipt := NewReceipt(payment, number)
		if err := s.receipts.Create(ctx, receipt); err != nil {
			return err
		}

		result = &ApplyPaymentResult{Invoice: inv, Payment: payment, Receipt: receipt}
		return s.audit.Record(ctx, businessID, "apply_payment", "invoice", inv.ID, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetReceipt loads a receipt.
func (s *PaymentService) GetReceipt(ctx context.Context, businessID, receiptID id.ID) (*Receipt, error) {
	return s.receipts.GetByID(ctx, businessID, receiptID)
}

// ListReceipts returns the receipts minted for an invoice.
func (s *PaymentService) ListReceipts(ctx context.Context, businessID, invoiceID id.ID) ([]Receipt, error) {
	if _, err := s.invoices.GetByID(ctx, businessID, invoiceID); err != nil {
		return nil, err
	}
	return s.receipts.ListByInvoice(ctx, businessID, invoiceID)
}
