package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/pkg/logger"
)

// Service handles registration and login.
type Service struct {
	users  Repository
	tokens *TokenManager
}

// NewService creates an auth Service.
func NewService(users Repository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a user under a business.
func (s *Service) Register(ctx context.Context, businessID id.ID, email, name, password string) (*User, error) {
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	u := NewUser(businessID, email, name, string(hash))
	if err := u.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", u.ID, "business_id", businessID)
	return u, nil
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID)
	return &LoginResult{Token: token, User: u}, nil
}

// Verify validates a token and returns its claims.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
