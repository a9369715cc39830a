package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/types"
	"fakturo/internal/domain"
)

func createQuote(t *testing.T, f *fixture) *Quote {
	t.Helper()
	q, err := f.quoteService.Create(context.Background(), f.businessID, CreateQuoteInput{
		CustomerID: f.customerID,
		Currency:   "EUR",
		Items: []QuoteItem{
			{Description: "design work", Quantity: types.MustMoney("5"), UnitPrice: types.MustMoney("12000"), TaxRate: types.MustMoney("0.18")},
		},
	})
	require.NoError(t, err)
	return q
}

// acceptQuote walks a fresh quote to ACCEPTED.
func acceptQuote(t *testing.T, f *fixture, q *Quote) *Quote {
	t.Helper()
	ctx := context.Background()
	_, err := f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteSent)
	require.NoError(t, err)
	accepted, err := f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteAccepted)
	require.NoError(t, err)
	return accepted
}

func TestQuoteService_Create(t *testing.T) {
	f := newFixture()
	q := createQuote(t, f)

	expected := fmt.Sprintf("QT-%s-001", time.Now().UTC().Format("20060102"))
	assert.Equal(t, expected, q.Number)
	assert.Equal(t, QuoteDraft, q.Status)
	assert.True(t, types.MustMoney("70800").Equal(q.GrandTotal))

	second := createQuote(t, f)
	assert.Equal(t, fmt.Sprintf("QT-%s-002", time.Now().UTC().Format("20060102")), second.Number)
}

func TestQuoteService_ChangeStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := createQuote(t, f)

	sent, err := f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteSent)
	require.NoError(t, err)
	assert.Equal(t, QuoteSent, sent.Status)

	rejected, err := f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteRejected)
	require.NoError(t, err)
	assert.Equal(t, QuoteRejected, rejected.Status)

	// Terminal: no way out of REJECTED
	_, err = f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteSent)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestQuoteService_ChangeStatus_ConvertedRejected(t *testing.T) {
	f := newFixture()
	q := createQuote(t, f)
	acceptQuote(t, f, q)

	_, err := f.quoteService.ChangeStatus(context.Background(), f.businessID, q.ID, QuoteConverted)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err), "CONVERTED is only reachable through Convert")
}

func TestQuoteService_Update_SentQuote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := createQuote(t, f)

	sent, err := f.quoteService.ChangeStatus(ctx, f.businessID, q.ID, QuoteSent)
	require.NoError(t, err)

	updated, err := f.quoteService.Update(ctx, f.businessID, q.ID, UpdateQuoteInput{
		Notes:   "revised offer",
		Version: sent.Version,
		Items: []QuoteItem{
			{Description: "smaller scope", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("9000")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "revised offer", updated.Notes)
	assert.True(t, types.MustMoney("9000").Equal(updated.GrandTotal))
}

func TestQuoteService_Update_AcceptedQuoteBlocked(t *testing.T) {
	f := newFixture()
	q := createQuote(t, f)
	accepted := acceptQuote(t, f, q)

	_, err := f.quoteService.Update(context.Background(), f.businessID, q.ID, UpdateQuoteInput{
		Version: accepted.Version,
		Items: []QuoteItem{
			{Description: "work", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("100")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestQuoteService_Delete_DraftOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft := createQuote(t, f)
	require.NoError(t, f.quoteService.Delete(ctx, f.businessID, draft.ID))
	_, err := f.quoteService.Get(ctx, f.businessID, draft.ID)
	assert.True(t, apperror.IsNotFound(err))

	sent := createQuote(t, f)
	_, err = f.quoteService.ChangeStatus(ctx, f.businessID, sent.ID, QuoteSent)
	require.NoError(t, err)

	err = f.quoteService.Delete(ctx, f.businessID, sent.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestQuoteService_Convert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := createQuote(t, f)
	acceptQuote(t, f, q)

	inv, err := f.quoteService.Convert(ctx, f.businessID, q.ID)
	require.NoError(t, err)

	expected := fmt.Sprintf("INV-%s-001", time.Now().UTC().Format("20060102"))
	assert.Equal(t, expected, inv.Number, "converted invoices use the daily sequence")
	assert.Equal(t, InvoiceSent, inv.Status)
	assert.Equal(t, q.CustomerID, inv.CustomerID)
	assert.Equal(t, q.Currency, inv.Currency)
	assert.True(t, types.MustMoney("70800").Equal(inv.GrandTotal), "totals recomputed from copied lines")
	assert.Equal(t, inv.IssueDate.AddDate(0, 0, 30), inv.DueDate)

	converted, err := f.quoteService.Get(ctx, f.businessID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteConverted, converted.Status)
	require.NotNil(t, converted.InvoiceID)
	assert.Equal(t, inv.ID, *converted.InvoiceID)

	// Line values were copied, not shared
	stored, err := f.invoiceService.Get(ctx, f.businessID, inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.NotEqual(t, q.Items[0].ItemID, stored.Items[0].ItemID)
	assert.Equal(t, q.Items[0].Description, stored.Items[0].Description)
}

func TestQuoteService_Convert_OnlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := createQuote(t, f)
	acceptQuote(t, f, q)

	_, err := f.quoteService.Convert(ctx, f.businessID, q.ID)
	require.NoError(t, err)

	_, err = f.quoteService.Convert(ctx, f.businessID, q.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err), "a quote yields at most one invoice")

	// Still exactly one invoice on record
	result, err := f.invoiceService.List(ctx, f.businessID, domain.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
}

func TestQuoteService_Convert_RequiresAccepted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft := createQuote(t, f)
	_, err := f.quoteService.Convert(ctx, f.businessID, draft.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	sent := createQuote(t, f)
	_, err = f.quoteService.ChangeStatus(ctx, f.businessID, sent.ID, QuoteSent)
	require.NoError(t, err)
	_, err = f.quoteService.Convert(ctx, f.businessID, sent.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}
