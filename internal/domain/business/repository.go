package business

import (
	"context"

	"fakturo/internal/core/id"
)

// Repository persists businesses.
type Repository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, businessID id.ID) (*Business, error)
	Update(ctx context.Context, b *Business) error

	// Purge deletes the business and every record it owns, children before
	// parents, in one transaction. There is no partial purge.
	Purge(ctx context.Context, businessID id.ID) error
}
