// Package document_repo implements document repositories on PostgreSQL.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/expense"
	"fakturo/internal/infrastructure/storage/postgres"
)

const expensesTable = "expenses"

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// NewExpenseRepo creates an expense repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[expense.Expense](),
	}
}

// Create inserts an expense.
func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	sql, args, err := postgres.Builder().
		Insert(expensesTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "expense")
	}
	return nil
}

// GetByID loads an expense, scoped by business.
func (r *ExpenseRepo) GetByID(ctx context.Context, businessID, expenseID id.ID) (*expense.Expense, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(expensesTable).
		Where(squirrel.Eq{"id": expenseID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e expense.Expense
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense", expenseID)
		}
		return nil, postgres.TranslateError(err, "expense")
	}
	return &e, nil
}

// Update writes expense fields guarded by version.
func (r *ExpenseRepo) Update(ctx context.Context, e *expense.Expense) error {
	values := postgres.StructToMap(e)
	delete(values, "id")
	delete(values, "business_id")

	sql, args, err := postgres.Builder().
		Update(expensesTable).
		SetMap(values).
		Where(squirrel.Eq{
			"id":          e.ID,
			"business_id": e.BusinessID,
			"version":     e.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "expense")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("expense", e.ID)
	}
	return nil
}

// Delete removes an expense.
func (r *ExpenseRepo) Delete(ctx context.Context, businessID, expenseID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(expensesTable).
		Where(squirrel.Eq{"id": expenseID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "expense")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", expenseID)
	}
	return nil
}

// List retrieves expenses with filtering.
func (r *ExpenseRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[expense.Expense], error) {
	result := &domain.ListResult[expense.Expense]{
		Items:  []expense.Expense{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := postgres.Builder().
		Select(r.columns...).
		From(expensesTable).
		Where(squirrel.Eq{"business_id": businessID})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"category": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	countQ := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	orderBy := "spent_at DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return result, nil
}
