package item

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// Repository persists catalog items, scoped by business on every call.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, businessID, itemID id.ID) (*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, businessID, itemID id.ID) error
	List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Item], error)
}
