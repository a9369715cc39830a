package customer

import (
	"context"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
)

// DocumentCounter reports how many ledger documents reference a customer.
// Implemented by the invoice and quote repositories.
type DocumentCounter interface {
	CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error)
}

// Service manages the customer catalog. Deletes are blocked while any invoice
// or quote references the customer.
type Service struct {
	repo      Repository
	invoices  DocumentCounter
	quotes    DocumentCounter
	txManager tx.Manager
}

// NewService creates a customer Service.
func NewService(repo Repository, invoices, quotes DocumentCounter, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		quotes:    quotes,
		txManager: txManager,
	}
}

// Input carries caller-supplied customer fields.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TaxID   string
}

// Create persists a new customer.
func (s *Service) Create(ctx context.Context, businessID id.ID, input Input) (*Customer, error) {
	c := New(businessID, input.Name)
	c.Email = input.Email
	c.Phone = input.Phone
	c.Address = input.Address
	c.TaxID = input.TaxID

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update rewrites the customer fields.
func (s *Service) Update(ctx context.Context, businessID, customerID id.ID, input Input) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}

	c.Name = input.Name
	c.Email = input.Email
	c.Phone = input.Phone
	c.Address = input.Address
	c.TaxID = input.TaxID
	c.Touch()

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer unless documents reference it.
func (s *Service) Delete(ctx context.Context, businessID, customerID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, businessID, customerID); err != nil {
			return err
		}

		invoiceCount, err := s.invoices.CountByCustomer(ctx, businessID, customerID)
		if err != nil {
			return err
		}
		quoteCount, err := s.quotes.CountByCustomer(ctx, businessID, customerID)
		if err != nil {
			return err
		}
		if invoiceCount > 0 || quoteCount > 0 {
			return apperror.NewReferentialConflict("customer",
				"customer with invoices or quotes cannot be deleted").
				WithDetail("customer_id", customerID.String()).
				WithDetail("invoices", invoiceCount).
				WithDetail("quotes", quoteCount)
		}
		return s.repo.Delete(ctx, businessID, customerID)
	})
}

// Get loads a customer.
func (s *Service) Get(ctx context.Context, businessID, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, businessID, customerID)
}

// List returns a page of customers.
func (s *Service) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Customer], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	return s.repo.List(ctx, businessID, filter)
}
