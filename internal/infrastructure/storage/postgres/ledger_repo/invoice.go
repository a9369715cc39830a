// Package ledger_repo implements the ledger repositories on PostgreSQL.
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
	invoicesTable     = "invoices"
	invoiceItemsTable = "invoice_items"
)

// InvoiceRepo implements ledger.InvoiceRepository.
type InvoiceRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

var _ ledger.InvoiceRepository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates an invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[ledger.Invoice](),
	}
}

// Create inserts the invoice header and its items.
func (r *InvoiceRepo) Create(ctx context.Context, inv *ledger.Invoice) error {
	querier := r.txManager.GetQuerier(ctx)

	values := postgres.StructToMap(inv)
	sql, args, err := postgres.Builder().
		Insert(invoicesTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "invoice")
	}

	return r.insertItems(ctx, inv.ID, inv.Items)
}

// GetByID loads the invoice with items, scoped by business.
func (r *InvoiceRepo) GetByID(ctx context.Context, businessID, invoiceID id.ID) (*ledger.Invoice, error) {
	return r.get(ctx, businessID, invoiceID, false)
}

// GetForUpdate loads the invoice with items under FOR UPDATE.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, businessID, invoiceID id.ID) (*ledger.Invoice, error) {
	return r.get(ctx, businessID, invoiceID, true)
}

func (r *InvoiceRepo) get(ctx context.Context, businessID, invoiceID id.ID, forUpdate bool) (*ledger.Invoice, error) {
	q := postgres.Builder().
		Select(r.columns...).
		From(invoicesTable).
		Where(squirrel.Eq{"id": invoiceID, "business_id": businessID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var inv ledger.Invoice
	if err := pgxscan.Get(ctx, querier, &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", invoiceID)
		}
		return nil, postgres.TranslateError(err, "invoice")
	}

	items, err := r.getItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// Update writes header fields guarded by version and replaces items.
func (r *InvoiceRepo) Update(ctx context.Context, inv *ledger.Invoice) error {
	querier := r.txManager.GetQuerier(ctx)

	values := postgres.StructToMap(inv)
	delete(values, "id")
	delete(values, "business_id")

	sql, args, err := postgres.Builder().
		Update(invoicesTable).
		SetMap(values).
		Where(squirrel.Eq{
			"id":          inv.ID,
			"business_id": inv.BusinessID,
			"version":     inv.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "invoice")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("invoice", inv.ID)
	}

	if err := r.deleteItems(ctx, inv.ID); err != nil {
		return err
	}
	return r.insertItems(ctx, inv.ID, inv.Items)
}

// UpdatePaymentState writes only the money-derived columns, guarded by version.
func (r *InvoiceRepo) UpdatePaymentState(ctx context.Context, inv *ledger.Invoice) error {
	sql, args, err := postgres.Builder().
		Update(invoicesTable).
		Set("amount_paid", inv.AmountPaid).
		Set("balance_due", inv.BalanceDue).
		Set("status", inv.Status).
		Set("updated_at", inv.UpdatedAt).
		Set("version", inv.Version).
		Where(squirrel.Eq{
			"id":          inv.ID,
			"business_id": inv.BusinessID,
			"version":     inv.Version - 1,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "invoice")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrencyConflict("invoice", inv.ID)
	}
	return nil
}

// Delete removes the invoice and its items.
func (r *InvoiceRepo) Delete(ctx context.Context, businessID, invoiceID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	if err := r.deleteItems(ctx, invoiceID); err != nil {
		return err
	}

	sql, args, err := postgres.Builder().
		Delete(invoicesTable).
		Where(squirrel.Eq{"id": invoiceID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, "invoice")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invoiceID)
	}
	return nil
}

// List retrieves invoices with filtering; items are not loaded.
func (r *InvoiceRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[ledger.Invoice], error) {
	result := &domain.ListResult[ledger.Invoice]{
		Items:  []ledger.Invoice{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := postgres.Builder().
		Select(r.columns...).
		From(invoicesTable).
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

// CountByCustomer reports how many invoices reference a customer.
func (r *InvoiceRepo) CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error) {
	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(invoicesTable).
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

func (r *InvoiceRepo) getItems(ctx context.Context, invoiceID id.ID) ([]ledger.InvoiceItem, error) {
	q := postgres.Builder().
		Select("item_id", "line_no", "description", "quantity", "unit_price", "tax_rate", "line_total").
		From(invoiceItemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []ledger.InvoiceItem{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

func (r *InvoiceRepo) deleteItems(ctx context.Context, invoiceID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, "DELETE FROM "+invoiceItemsTable+" WHERE invoice_id = $1", invoiceID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) insertItems(ctx context.Context, invoiceID id.ID, items []ledger.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}

	q := postgres.Builder().
		Insert(invoiceItemsTable).
		Columns("item_id", "invoice_id", "line_no", "description", "quantity", "unit_price", "tax_rate", "line_total")

	for _, it := range items {
		q = q.Values(it.ItemID, invoiceID, it.LineNo, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.LineTotal)
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
