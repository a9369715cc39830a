package business

import (
	"context"

	"fakturo/internal/core/id"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain/auth"
	"fakturo/pkg/logger"
)

// OwnerRegistrar creates the first user of a freshly minted business.
type OwnerRegistrar interface {
	Register(ctx context.Context, businessID id.ID, email, name, password string) (*auth.User, error)
}

// Service manages the tenant root.
type Service struct {
	repo      Repository
	owners    OwnerRegistrar
	txManager tx.Manager
}

// NewService creates a business Service.
func NewService(repo Repository, owners OwnerRegistrar, txManager tx.Manager) *Service {
	return &Service{repo: repo, owners: owners, txManager: txManager}
}

// Input carries caller-supplied business fields.
type Input struct {
	Name     string
	Email    string
	Address  string
	TaxID    string
	Currency string
}

// Create persists a new business.
func (s *Service) Create(ctx context.Context, input Input) (*Business, error) {
	b := New(input.Name, input.Currency)
	b.Email = input.Email
	b.Address = input.Address
	b.TaxID = input.TaxID

	if err := b.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SignupInput carries the fields of a public signup.
type SignupInput struct {
	BusinessName string
	Currency     string
	OwnerName    string
	OwnerEmail   string
	Password     string
}

// SignupResult is a freshly minted tenant with its owner account.
type SignupResult struct {
	Business *Business  `json:"business"`
	Owner    *auth.User `json:"owner"`
}

// Signup mints a new business and its owner account in one transaction.
// Signup never attaches a user to an existing business; joining a tenant
// requires an authenticated member, not knowledge of its id.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	result := &SignupResult{}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.Create(ctx, Input{Name: input.BusinessName, Currency: input.Currency})
		if err != nil {
			return err
		}

		owner, err := s.owners.Register(ctx, b.ID, input.OwnerEmail, input.OwnerName, input.Password)
		if err != nil {
			return err
		}

		result.Business = b
		result.Owner = owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "business signed up",
		"business_id", result.Business.ID,
		"owner_id", result.Owner.ID,
	)
	return result, nil
}

// Update rewrites the business profile fields.
func (s *Service) Update(ctx context.Context, businessID id.ID, input Input) (*Business, error) {
	b, err := s.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	b.Name = input.Name
	b.Email = input.Email
	b.Address = input.Address
	b.TaxID = input.TaxID
	b.Currency = input.Currency

	if err := b.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get loads a business.
func (s *Service) Get(ctx context.Context, businessID id.ID) (*Business, error) {
	return s.repo.GetByID(ctx, businessID)
}

// Purge removes the business and everything it owns in one transaction.
// Issued sequence counters are left untouched: numbers are global and a new
// tenant must never re-mint one.
func (s *Service) Purge(ctx context.Context, businessID id.ID) error {
	if _, err := s.repo.GetByID(ctx, businessID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Purge(ctx, businessID)
	})
	if err != nil {
		return err
	}

	logger.Warn(ctx, "business purged", "business_id", businessID)
	return nil
}
