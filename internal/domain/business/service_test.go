package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/auth"
)

type fakeRepo struct {
	businesses map[id.ID]*Business
	purged     []id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{businesses: map[id.ID]*Business{}}
}

func (r *fakeRepo) Create(_ context.Context, b *Business) error {
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, businessID id.ID) (*Business, error) {
	b, ok := r.businesses[businessID]
	if !ok {
		return nil, apperror.NewNotFound("business", businessID)
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, b *Business) error {
	if _, ok := r.businesses[b.ID]; !ok {
		return apperror.NewNotFound("business", b.ID)
	}
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *fakeRepo) Purge(_ context.Context, businessID id.ID) error {
	delete(r.businesses, businessID)
	r.purged = append(r.purged, businessID)
	return nil
}

type fakeRegistrar struct {
	users map[id.ID]*auth.User
	fail  error
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{users: map[id.ID]*auth.User{}}
}

func (r *fakeRegistrar) Register(_ context.Context, businessID id.ID, email, name, password string) (*auth.User, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters")
	}
	u := auth.NewUser(businessID, email, name, "hashed")
	r.users[u.ID] = u
	return u, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestSignup_MintsBusinessAndOwner(t *testing.T) {
	repo := newFakeRepo()
	registrar := newFakeRegistrar()
	svc := NewService(repo, registrar, passthroughTx{})

	result, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "Acme Studio",
		Currency:     "EUR",
		OwnerName:    "Alex",
		OwnerEmail:   "alex@acme.example",
		Password:     "long-enough",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Studio", result.Business.Name)
	assert.Equal(t, "EUR", result.Business.Currency)
	assert.Equal(t, result.Business.ID, result.Owner.BusinessID)

	stored, err := repo.GetByID(context.Background(), result.Business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", stored.Name)
	require.Len(t, registrar.users, 1)
}

func TestSignup_BusinessesAreIndependent(t *testing.T) {
	repo := newFakeRepo()
	registrar := newFakeRegistrar()
	svc := NewService(repo, registrar, passthroughTx{})

	first, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "First", Currency: "EUR",
		OwnerName: "A", OwnerEmail: "a@example.com", Password: "long-enough",
	})
	require.NoError(t, err)

	second, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "Second", Currency: "USD",
		OwnerName: "B", OwnerEmail: "b@example.com", Password: "long-enough",
	})
	require.NoError(t, err)

	// Each signup mints its own tenant; no input can target an existing one.
	assert.NotEqual(t, first.Business.ID, second.Business.ID)
	assert.Equal(t, first.Business.ID, first.Owner.BusinessID)
	assert.Equal(t, second.Business.ID, second.Owner.BusinessID)
}

func TestSignup_InvalidBusinessFails(t *testing.T) {
	repo := newFakeRepo()
	registrar := newFakeRegistrar()
	svc := NewService(repo, registrar, passthroughTx{})

	_, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "  ",
		Currency:     "EUR",
		OwnerName:    "Alex",
		OwnerEmail:   "alex@acme.example",
		Password:     "long-enough",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, registrar.users)
}

func TestSignup_OwnerFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	registrar := newFakeRegistrar()
	svc := NewService(repo, registrar, passthroughTx{})

	_, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "Acme Studio",
		Currency:     "EUR",
		OwnerName:    "Alex",
		OwnerEmail:   "alex@acme.example",
		Password:     "short",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestPurge_UnknownBusiness(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakeRegistrar(), passthroughTx{})
	err := svc.Purge(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestPurge_RemovesBusiness(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakeRegistrar(), passthroughTx{})

	result, err := svc.Signup(context.Background(), SignupInput{
		BusinessName: "Acme Studio", Currency: "EUR",
		OwnerName: "Alex", OwnerEmail: "alex@acme.example", Password: "long-enough",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Purge(context.Background(), result.Business.ID))
	assert.Equal(t, []id.ID{result.Business.ID}, repo.purged)

	_, err = svc.Get(context.Background(), result.Business.ID)
	assert.True(t, apperror.IsNotFound(err))
}
