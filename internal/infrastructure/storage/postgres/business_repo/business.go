// Package business_repo implements the business repository on PostgreSQL.
package business_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/business"
	"fakturo/internal/infrastructure/storage/postgres"
)

const businessesTable = "businesses"

// BusinessRepo implements business.Repository.
type BusinessRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ business.Repository = (*BusinessRepo)(nil)

// NewBusinessRepo creates a business repository.
func NewBusinessRepo(txManager *postgres.TxManager) *BusinessRepo {
	return &BusinessRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[business.Business](),
	}
}

// Create inserts a business.
func (r *BusinessRepo) Create(ctx context.Context, b *business.Business) error {
	sql, args, err := postgres.Builder().
		Insert(businessesTable).
		SetMap(postgres.StructToMap(b)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "business")
	}
	return nil
}

// GetByID loads a business.
func (r *BusinessRepo) GetByID(ctx context.Context, businessID id.ID) (*business.Business, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(businessesTable).
		Where(squirrel.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b business.Business
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("business", businessID)
		}
		return nil, postgres.TranslateError(err, "business")
	}
	return &b, nil
}

// Update writes business fields.
func (r *BusinessRepo) Update(ctx context.Context, b *business.Business) error {
	values := postgres.StructToMap(b)
	delete(values, "id")

	sql, args, err := postgres.Builder().
		Update(businessesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "business")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("business", b.ID)
	}
	return nil
}

// purgeStatements delete the business's records children-first, so no
// statement ever orphans a row. Sequence counters are intentionally not
// touched.
var purgeStatements = []string{
	"DELETE FROM invoice_items WHERE invoice_id IN (SELECT id FROM invoices WHERE business_id = $1)",
	"DELETE FROM receipts WHERE business_id = $1",
	"DELETE FROM payments WHERE business_id = $1",
	"DELETE FROM invoices WHERE business_id = $1",
	"DELETE FROM quote_items WHERE quote_id IN (SELECT id FROM quotes WHERE business_id = $1)",
	"DELETE FROM quotes WHERE business_id = $1",
	"DELETE FROM expenses WHERE business_id = $1",
	"DELETE FROM items WHERE business_id = $1",
	"DELETE FROM customers WHERE business_id = $1",
	"DELETE FROM sys_audit WHERE business_id = $1",
	"DELETE FROM users WHERE business_id = $1",
	"DELETE FROM businesses WHERE id = $1",
}

// Purge implements business.Repository. Must run inside a transaction; the
// service wraps it.
func (r *BusinessRepo) Purge(ctx context.Context, businessID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)
	for _, stmt := range purgeStatements {
		if _, err := querier.Exec(ctx, stmt, businessID); err != nil {
			return fmt.Errorf("purge business: %w", err)
		}
	}
	return nil
}
