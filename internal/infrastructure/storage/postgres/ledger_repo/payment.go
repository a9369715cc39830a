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

const paymentsTable = "payments"

// PaymentRepo implements ledger.PaymentRepository. Payments are insert-only;
// no update or delete statements exist here on purpose.
type PaymentRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ ledger.PaymentRepository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[ledger.Payment](),
	}
}

// Create inserts a payment.
func (r *PaymentRepo) Create(ctx context.Context, p *ledger.Payment) error {
	sql, args, err := postgres.Builder().
		Insert(paymentsTable).
		SetMap(postgres.StructToMap(p)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "payment")
	}
	return nil
}

// GetByID loads a payment, scoped by business.
func (r *PaymentRepo) GetByID(ctx context.Context, businessID, paymentID id.ID) (*ledger.Payment, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(paymentsTable).
		Where(squirrel.Eq{"id": paymentID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p ledger.Payment
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID)
		}
		return nil, postgres.TranslateError(err, "payment")
	}
	return &p, nil
}

// ListByInvoice returns payments for an invoice, oldest first.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, businessID, invoiceID id.ID) ([]ledger.Payment, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(paymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID, "business_id": businessID}).
		OrderBy("paid_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	payments := []ledger.Payment{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// CountByInvoice reports how many payments reference an invoice.
func (r *PaymentRepo) CountByInvoice(ctx context.Context, businessID, invoiceID id.ID) (int64, error) {
	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(paymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return count, nil
}
