package expense

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Repository persists expenses, scoped by business on every call.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, businessID, expenseID id.ID) (*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, businessID, expenseID id.ID) error
	List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Expense], error)
}
