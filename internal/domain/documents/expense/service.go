package expense

import (
	"context"
	"time"

	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
	"fakturo/internal/domain"
)

// Service manages expense records.
type Service struct {
	repo Repository
}

// NewService creates an expense Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input carries caller-supplied expense fields.
type Input struct {
	Category    string
	Description string
	Amount      types.Money
	Currency    string
	SpentAt     time.Time
}

// Create persists a new expense.
func (s *Service) Create(ctx context.Context, businessID id.ID, input Input) (*Expense, error) {
	e := New(businessID, input.Category, input.Currency, input.Amount, input.SpentAt)
	e.Description = input.Description

	if err := e.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update rewrites the expense fields.
func (s *Service) Update(ctx context.Context, businessID, expenseID id.ID, input Input) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, businessID, expenseID)
	if err != nil {
		return nil, err
	}

	e.Category = input.Category
	e.Description = input.Description
	e.Amount = input.Amount
	e.Currency = input.Currency
	if !input.SpentAt.IsZero() {
		e.SpentAt = input.SpentAt
	}
	e.Touch()

	if err := e.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, businessID, expenseID id.ID) error {
	if _, err := s.repo.GetByID(ctx, businessID, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, businessID, expenseID)
}

// Get loads an expense.
func (s *Service) Get(ctx context.Context, businessID, expenseID id.ID) (*Expense, error) {
	return s.repo.GetByID(ctx, businessID, expenseID)
}

// List returns a page of expenses.
func (s *Service) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Expense], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	return s.repo.List(ctx, businessID, filter)
}
