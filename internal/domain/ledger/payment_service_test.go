package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
)

// createInvoice persists a SENT invoice over 70800 (5 x 12000 at 18% tax).
func createInvoice(t *testing.T, f *fixture, asDraft bool) *Invoice {
	t.Helper()
	inv, err := f.invoiceService.Create(context.Background(), f.businessID, CreateInvoiceInput{
		CustomerID: f.customerID,
		Currency:   "EUR",
		AsDraft:    asDraft,
		Items: []InvoiceItem{
			{Description: "design work", Quantity: types.MustMoney("5"), UnitPrice: types.MustMoney("12000"), TaxRate: types.MustMoney("0.18")},
		},
	})
	require.NoError(t, err)
	return inv
}

func TestApplyPayment_FullSettlement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	result, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "70800",
		Method: MethodTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, InvoicePaid, result.Invoice.Status)
	assert.True(t, result.Invoice.BalanceDue.IsZero())
	assert.True(t, types.MustMoney("70800").Equal(result.Invoice.AmountPaid))

	require.NotNil(t, result.Receipt)
	expected := fmt.Sprintf("RCT-%d-0001", time.Now().Year())
	assert.Equal(t, expected, result.Receipt.Number)
	assert.Equal(t, result.Payment.ID, result.Receipt.PaymentID)
	assert.True(t, result.Payment.Amount.Equal(result.Receipt.Amount))

	// The stored invoice matches what the result reported
	stored, err := f.invoiceService.Get(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, stored.Status)
	assert.True(t, stored.BalanceDue.IsZero())
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	first, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "30000",
		Method: MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, InvoicePartiallyPaid, first.Invoice.Status)
	assert.True(t, types.MustMoney("40800").Equal(first.Invoice.BalanceDue))

	second, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "40800",
		Method: MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, second.Invoice.Status)
	assert.True(t, second.Invoice.BalanceDue.IsZero())
	assert.True(t, types.MustMoney("70800").Equal(second.Invoice.AmountPaid))

	receipts, err := f.paymentService.ListReceipts(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
}

func TestApplyPayment_Overpayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	result, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "100000",
		Method: MethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, InvoicePaid, result.Invoice.Status)
	assert.True(t, result.Invoice.BalanceDue.IsZero(), "balance clamps at zero")
	assert.True(t, types.MustMoney("100000").Equal(result.Invoice.AmountPaid), "overpayment is kept in full")
}

func TestApplyPayment_RejectsNonPositiveAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	for _, amount := range []string{"0", "-50"} {
		_, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
			Amount: amount,
			Method: MethodCash,
		})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidAmount, appErr.Code, "amount %s", amount)
	}

	_, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "not-a-number",
		Method: MethodCash,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyPayment_RejectsDraftInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, true)

	_, err := f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
		Amount: "100",
		Method: MethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	// Nothing was recorded
	payments, err := f.invoiceService.ListPayments(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPayment_CrossBusinessInvoiceIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	other := newFixture()
	_, err := other.paymentService.ApplyPayment(ctx, other.businessID, inv.ID, ApplyPaymentInput{
		Amount: "100",
		Method: MethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err), "foreign invoices look missing, never forbidden")
}

func TestApplyPayment_ConcurrentApplications(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := createInvoice(t, f, false)

	// Three payments of 23600 settle 70800 exactly
	const workers = 3
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.paymentService.ApplyPayment(ctx, f.businessID, inv.ID, ApplyPaymentInput{
				Amount: "23600",
				Method: MethodTransfer,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	stored, err := f.invoiceService.Get(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, stored.Status)
	assert.True(t, types.MustMoney("70800").Equal(stored.AmountPaid), "amount paid: %s", stored.AmountPaid)
	assert.True(t, stored.BalanceDue.IsZero())

	receipts, err := f.paymentService.ListReceipts(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	require.Len(t, receipts, workers)

	seen := make(map[string]bool)
	for _, rc := range receipts {
		assert.False(t, seen[rc.Number], "duplicate receipt number %s", rc.Number)
		seen[rc.Number] = true
	}
}
