// Package catalog_repo implements the catalog repositories on PostgreSQL.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/infrastructure/storage/postgres"
)

const customersTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[customer.Customer](),
	}
}

// Create inserts a customer.
func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	sql, args, err := postgres.Builder().
		Insert(customersTable).
		SetMap(postgres.StructToMap(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "customer")
	}
	return nil
}

// GetByID loads a customer, scoped by business.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, customerID id.ID) (*customer.Customer, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID)
		}
		return nil, postgres.TranslateError(err, "customer")
	}
	return &c, nil
}

// Update writes customer fields guarded by version.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	values := postgres.StructToMap(c)
	delete(values, "id")
	delete(values, "business_id")

	sql, args, err := postgres.Builder().
		Update(customersTable).
		SetMap(values).
		Where(squirrel.Eq{
			"id":          c.ID,
			"business_id": c.BusinessID,
			"version":     c.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "customer")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("customer", c.ID)
	}
	return nil
}

// Delete removes a customer.
func (r *CustomerRepo) Delete(ctx context.Context, businessID, customerID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(customersTable).
		Where(squirrel.Eq{"id": customerID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "customer")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID)
	}
	return nil
}

// List retrieves customers with filtering.
func (r *CustomerRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[customer.Customer], error) {
	result := &domain.ListResult[customer.Customer]{
		Items:  []customer.Customer{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := postgres.Builder().
		Select(r.columns...).
		From(customersTable).
		Where(squirrel.Eq{"business_id": businessID})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
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

	orderBy := "name"
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

// Exists reports whether the customer exists within the business.
func (r *CustomerRepo) Exists(ctx context.Context, businessID, customerID id.ID) (bool, error) {
	var exists bool
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+customersTable+" WHERE id = $1 AND business_id = $2)",
		customerID, businessID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}
