package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/ledger"
	"fakturo/internal/infrastructure/storage/postgres"
)

const receiptsTable = "receipts"

// ReceiptRepo implements ledger.ReceiptRepository. Insert-only, like payments.
type ReceiptRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ ledger.ReceiptRepository = (*ReceiptRepo)(nil)

// NewReceiptRepo creates a receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[ledger.Receipt](),
	}
}

// Create inserts a receipt.
func (r *ReceiptRepo) Create(ctx context.Context, receipt *ledger.Receipt) error {
	sql, args, err := postgres.Builder().
		Insert(receiptsTable).
		SetMap(postgres.StructToMap(receipt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "receipt")
	}
	return nil
}

// GetByID loads a receipt, scoped by business.
func (r *ReceiptRepo) GetByID(ctx context.Context, businessID, receiptID id.ID) (*ledger.Receipt, error) {
	return r.getOne(ctx, squirrel.Eq{"id": receiptID, "business_id": businessID}, receiptID)
}

// GetByPayment loads the receipt minted for a payment.
func (r *ReceiptRepo) GetByPayment(ctx context.Context, businessID, paymentID id.ID) (*ledger.Receipt, error) {
	return r.getOne(ctx, squirrel.Eq{"payment_id": paymentID, "business_id": businessID}, paymentID)
}

func (r *ReceiptRepo) getOne(ctx context.Context, where squirrel.Eq, lookupID id.ID) (*ledger.Receipt, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(receiptsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var receipt ledger.Receipt
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &receipt, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipt", lookupID)
		}
		return nil, postgres.TranslateError(err, "receipt")
	}
	return &receipt, nil
}

// ListByInvoice returns receipts for an invoice, oldest first.
func (r *ReceiptRepo) ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]ledger.Receipt, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(receiptsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID, "business_id": businessID}).
		OrderBy("issued_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	receipts := []ledger.Receipt{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &receipts, sql, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}
