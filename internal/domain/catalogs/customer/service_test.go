package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

type fakeRepo struct {
	customers map[id.ID]*Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[id.ID]*Customer)}
}

func (r *fakeRepo) Create(ctx context.Context, c *Customer) error {
	stored := *c
	r.customers[c.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, businessID, customerID id.ID) (*Customer, error) {
	c, ok := r.customers[customerID]
	if !ok || c.BusinessID != businessID {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	out := *c
	return &out, nil
}

func (r *fakeRepo) Update(ctx context.Context, c *Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return apperror.NewNotFound("customer", c.ID)
	}
	stored := *c
	r.customers[c.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, businessID, customerID id.ID) error {
	if _, err := r.GetByID(ctx, businessID, customerID); err != nil {
		return err
	}
	delete(r.customers, customerID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, businessID id.ID, filter domain.ListFilter) (*domain.ListResult[Customer], error) {
	result := &domain.ListResult[Customer]{Items: make([]Customer, 0), Limit: filter.Limit}
	for _, c := range r.customers {
		if c.BusinessID == businessID {
			result.Items = append(result.Items, *c)
			result.TotalCount++
		}
	}
	return result, nil
}

func (r *fakeRepo) Exists(ctx context.Context, businessID, customerID id.ID) (bool, error) {
	c, ok := r.customers[customerID]
	return ok && c.BusinessID == businessID, nil
}

type fixedCounter struct {
	count int64
}

func (f *fixedCounter) CountByCustomer(ctx context.Context, businessID, customerID id.ID) (int64, error) {
	return f.count, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestService_CreateAndGet(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fixedCounter{}, &fixedCounter{}, passthroughTx{})
	businessID := id.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, businessID, Input{Name: "Acme GmbH", Email: "billing@acme.example"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, businessID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", got.Name)

	// Another business cannot see it
	_, err = svc.Get(ctx, id.New(), c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Create_RequiresName(t *testing.T) {
	svc := NewService(newFakeRepo(), &fixedCounter{}, &fixedCounter{}, passthroughTx{})

	_, err := svc.Create(context.Background(), id.New(), Input{Name: "   "})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Delete_BlockedByInvoices(t *testing.T) {
	repo := newFakeRepo()
	invoices := &fixedCounter{count: 2}
	svc := NewService(repo, invoices, &fixedCounter{}, passthroughTx{})
	businessID := id.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, businessID, Input{Name: "Acme GmbH"})
	require.NoError(t, err)

	err = svc.Delete(ctx, businessID, c.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferentialConflict, appErr.Code)

	_, err = svc.Get(ctx, businessID, c.ID)
	assert.NoError(t, err, "customer survives the blocked delete")
}

func TestService_Delete_BlockedByQuotes(t *testing.T) {
	repo := newFakeRepo()
	quotes := &fixedCounter{count: 1}
	svc := NewService(repo, &fixedCounter{}, quotes, passthroughTx{})
	businessID := id.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, businessID, Input{Name: "Globex Ltd"})
	require.NoError(t, err)

	err = svc.Delete(ctx, businessID, c.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferentialConflict, appErr.Code)
}

func TestService_Delete_Unreferenced(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fixedCounter{}, &fixedCounter{}, passthroughTx{})
	businessID := id.New()
	ctx := context.Background()

	c, err := svc.Create(ctx, businessID, Input{Name: "Initech"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, businessID, c.ID))
	_, err = svc.Get(ctx, businessID, c.ID)
	assert.True(t, apperror.IsNotFound(err))
}
