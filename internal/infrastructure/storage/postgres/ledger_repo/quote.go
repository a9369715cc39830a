package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/ledger"
	"fakturo/internal/infrastructure/storage/postgres"
)

const (
	quotesTable     = "quotes"
	quoteItemsTable = "quote_items"
)

// QuoteRepo implements ledger.QuoteRepository.
type QuoteRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ ledger.QuoteRepository = (*QuoteRepo)(nil)

// NewQuoteRepo creates a quote repository.
func NewQuoteRepo(txManager *postgres.TxManager) *QuoteRepo {
	return &QuoteRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[ledger.Quote](),
	}
}

// Create inserts the quote header and its items.
func (r *QuoteRepo) Create(ctx context.Context, q *ledger.Quote) error {
	querier := r.txManager.GetQuerier(ctx)

	values := postgres.StructToMap(q)
	sql, args, err := postgres.Builder().
		Insert(quotesTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "quote")
	}

	return r.insertItems(ctx, q.ID, q.Items)
}

// GetByID loads the quote with items, scoped by business.
func (r *QuoteRepo) GetByID(ctx context.Context, businessID, quoteID id.ID) (*ledger.Quote, error) {
	return r.get(ctx, businessID, quoteID, false)
}

// GetForUpdate loads the quote with items under FOR UPDATE.
func (r *QuoteRepo) GetForUpdate(ctx context.Context, businessID, quoteID id.ID) (*ledger.Quote, error) {
	return r.get(ctx, businessID, quoteID, true)
}

func (r *QuoteRepo) get(ctx context.Context, businessID, quoteID id.ID, forUpdate bool) (*ledger.Quote, error) {
	q := postgres.Builder().
		Select(r.columns...).
		From(quotesTable).
		Where(squirrel.Eq{"id": quoteID, "business_id": businessID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var quote ledger.Quote
	if err := pgxscan.Get(ctx, querier, &quote, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("quote", quoteID)
		}
		return nil, postgres.TranslateError(err, "quote")
	}

	items, err := r.getItems(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	quote.Items = items
	return &quote, nil
}

// Update writes header fields guarded by version and replaces items.
func (r *QuoteRepo) Update(ctx context.Context, q *ledger.Quote) error {
	querier := r.txManager.GetQuerier(ctx)

	values := postgres.StructToMap(q)
	delete(values, "id")
	delete(values, "business_id")

	sql, args, err := postgres.Builder().
		Update(quotesTable).
		SetMap(values).
		Where(squirrel.Eq{
			"id":          q.ID,
			"business_id": q.BusinessID,
			"version":     q.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "quote")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("quote", q.ID)
	}

	if err := r.deleteItems(ctx, q.ID); err != nil {
		return err
	}
	return r.insertItems(ctx, q.ID, q.Items)
}

// Delete removes the quote and its items.
func (r *QuoteRepo) Delete(ctx context.Context, businessID, quoteID id.ID) error {
	if err := r.deleteItems(ctx, quoteID); err != nil {
		return err
	}

	sql, args, err := postgres.Builder().
		Delete(quotesTable).
		Where(squirrel.Eq{"id": quoteID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "quote")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("quote", quoteID)
	}
	return nil
}

// List retrieves quotes with filtering; items are not loaded.
func (r *QuoteRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[ledger.Quote], error) {
	result := &domain.ListResult[ledger.Quote]{
		Items:  []ledger.Quote{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := postgres.Builder().
		Select(r.columns...).
		From(quotesTable).
		Where(squirrel.Eq{"business_id": businessID})

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.DateTo})
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

	orderBy := "issue_date DESC, number DESC"
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

// CountByCustomer reports how many quotes reference a customer.
func (r *QuoteRepo) CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error) {
	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(quotesTable).
		Where(squirrel.Eq{"business_id": businessID, "customer_id": customerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by customer: %w", err)
	}
	return count, nil
}

func (r *QuoteRepo) getItems(ctx context.Context, quoteID id.ID) ([]ledger.QuoteItem, error) {
	q := postgres.Builder().
		Select("item_id", "line_no", "description", "quantity", "unit_price", "tax_rate", "line_total").
		From(quoteItemsTable).
		Where(squirrel.Eq{"quote_id": quoteID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []ledger.QuoteItem{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

func (r *QuoteRepo) deleteItems(ctx context.Context, quoteID id.ID) error {
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, "DELETE FROM "+quoteItemsTable+" WHERE quote_id = $1", quoteID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

func (r *QuoteRepo) insertItems(ctx context.Context, quoteID id.ID, items []ledger.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}

	q := postgres.Builder().
		Insert(quoteItemsTable).
		Columns("item_id", "quote_id", "line_no", "description", "quantity", "unit_price", "tax_rate", "line_total")

	for _, it := range items {
		q = q.Values(it.ItemID, quoteID, it.LineNo, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}
