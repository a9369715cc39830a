package item

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
	"fakturo/internal/domain"
)

// Service manages the item catalog. Items are never referenced by foreign key
// from issued documents (lines copy values), so deletes are unguarded;
// deactivation is the soft alternative.
type Service struct {
	repo Repository
}

// NewService creates an item Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input carries caller-supplied item fields.
type Input struct {
	Name        string
	Description string
	UnitPrice   types.Money
	TaxRate     types.Rate
	Unit        string
	Active      bool
}

// Create persists a new catalog item.
func (s *Service) Create(ctx context.Context, businessID id.ID, input Input) (*Item, error) {
	i := New(businessID, input.Name, input.UnitPrice, input.TaxRate)
	i.Description = input.Description
	i.Unit = input.Unit

	if err := i.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Update rewrites the item fields.
func (s *Service) Update(ctx context.Context, businessID, itemID id.ID, input Input) (*Item, error) {
	i, err := s.repo.GetByID(ctx, businessID, itemID)
	if err != nil {
		return nil, err
	}

	i.Name = input.Name
	i.Description = input.Description
	i.UnitPrice = input.UnitPrice
	i.TaxRate = input.TaxRate
	i.Unit = input.Unit
	i.Active = input.Active
	i.Touch()

	if err := i.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Delete removes a catalog item.
func (s *Service) Delete(ctx context.Context, businessID, itemID id.ID) error {
	if _, err := s.repo.GetByID(ctx, businessID, itemID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, businessID, itemID)
}

// Get loads a catalog item.
func (s *Service) Get(ctx context.Context, businessID, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, businessID, itemID)
}

// List returns a page of catalog items.
func (s *Service) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Item], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	return s.repo.List(ctx, businessID, filter)
}
