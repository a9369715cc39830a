package customer

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Repository persists customers, scoped by business on every call.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, businessID, customerID id.ID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, businessID, customerID id.ID) error
	List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Customer], error)

	// Exists reports whether the customer exists within the business.
	Exists(ctx context.Context, businessID, customerID id.ID) (bool, error)
}
