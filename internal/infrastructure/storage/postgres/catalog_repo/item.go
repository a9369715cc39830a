package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/catalogs/item"
	"fakturo/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates an item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[item.Item](),
	}
}

// Create inserts a catalog item.
func (r *ItemRepo) Create(ctx context.Context, i *item.Item) error {
	sql, args, err := postgres.Builder().
		Insert(itemsTable).
		SetMap(postgres.StructToMap(i)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "item")
	}
	return nil
}

// GetByID loads a catalog item, scoped by business.
func (r *ItemRepo) GetByID(ctx context.Context, businessID, itemID id.ID) (*item.Item, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var i item.Item
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &i, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, postgres.TranslateError(err, "item")
	}
	return &i, nil
}

// Update writes item fields guarded by version.
func (r *ItemRepo) Update(ctx context.Context, i *item.Item) error {
	values := postgres.StructToMap(i)
	delete(values, "id")
	delete(values, "business_id")

	sql, args, err := postgres.Builder().
		Update(itemsTable).
		SetMap(values).
		Where(squirrel.Eq{
			"id":          i.ID,
			"business_id": i.BusinessID,
			"version":     i.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("item", i.ID)
	}
	return nil
}

// Delete removes a catalog item.
func (r *ItemRepo) Delete(ctx context.Context, businessID, itemID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(itemsTable).
		Where(squirrel.Eq{"id": itemID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

// List retrieves catalog items with filtering.
func (r *ItemRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[item.Item], error) {
	result := &domain.ListResult[item.Item]{
		Items:  []item.Item{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := postgres.Builder().
		Select(r.columns...).
		From(itemsTable).
		Where(squirrel.Eq{"business_id": businessID})

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
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
