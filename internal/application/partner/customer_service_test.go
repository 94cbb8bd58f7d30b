package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/apptest"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, "1 Main St", "1234567890", "ap@example.com")
	require.NoError(t, err)
	return c
}

func validRequest() CustomerRequest {
	return CustomerRequest{
		Name:    "Acme Corp",
		Address: "1 Main St",
		Phone:   "1234567890",
		Email:   "ap@acme.com",
	}
}

func TestCustomerService_Create_Success(t *testing.T) {
	repos := apptest.NewRepos()
	service := NewCustomerService(repos.Customers, repos.Scope)
	ctx := context.Background()

	repos.Customers.On("ExistsByName", ctx, "Acme Corp", (*uuid.UUID)(nil)).Return(false, nil)
	repos.Customers.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, validRequest())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "Acme Corp", result.Name)
	assert.Equal(t, "1234567890", result.Phone)
	repos.AssertExpectations(t)
}

func TestCustomerService_Create_InvalidPhone(t *testing.T) {
	repos := apptest.NewRepos()
	service := NewCustomerService(repos.Customers, repos.Scope)
	req := validRequest()
	req.Phone = "12345"

	result, err := service.Create(context.Background(), req)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	repos.Customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_DuplicateName(t *testing.T) {
	repos := apptest.NewRepos()
	service := NewCustomerService(repos.Customers, repos.Scope)
	ctx := context.Background()

	repos.Customers.On("ExistsByName", ctx, "Acme Corp", (*uuid.UUID)(nil)).Return(true, nil)

	result, err := service.Create(ctx, validRequest())

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	repos.Customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	repos := apptest.NewRepos()
	service := NewCustomerService(repos.Customers, repos.Scope)
	ctx := context.Background()
	id := uuid.New()

	repos.Customers.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, id)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.Contains(t, err.Error(), id.String())
}

func TestCustomerService_List_Success(t *testing.T) {
	repos := apptest.NewRepos()
	service := NewCustomerService(repos.Customers, repos.Scope)
	ctx := context.Background()

	customers := []partner.Customer{*newTestCustomer(t, "Acme Corp"), *newTestCustomer(t, "Acme Labs")}
	expectedFilter := shared.Filter{Offset: 0, Limit: 100, OrderBy: "created_at", OrderDir: "asc", Search: "acme"}
	repos.Customers.On("FindAll", ctx, expectedFilter).Return(customers, nil)
	repos.Customers.On("Count", ctx, expectedFilter).Return(int64(2), nil)

	result, total, err := service.List(ctx, CustomerListFilter{Name: "acme"})

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), total)
	repos.AssertExpectations(t)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields under row lock", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewCustomerService(repos.Customers, repos.Scope)
		existing := newTestCustomer(t, "Acme Corp")
		req := CustomerRequest{Name: "Acme Inc", Address: "2 High St", Phone: "0987654321"}

		repos.Customers.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Customers.On("ExistsByName", ctx, "Acme Inc", &existing.ID).Return(false, nil)
		repos.Customers.On("Save", ctx, existing).Return(nil)

		result, err := service.Update(ctx, existing.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "Acme Inc", result.Name)
		assert.Equal(t, "2 High St", result.Address)
		assert.Empty(t, result.Email)
		repos.AssertExpectations(t)
	})

	t.Run("rechecks name uniqueness", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewCustomerService(repos.Customers, repos.Scope)
		existing := newTestCustomer(t, "Acme Corp")
		req := validRequest()
		req.Name = "Globex"

		repos.Customers.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Customers.On("ExistsByName", ctx, "Globex", &existing.ID).Return(true, nil)

		_, err := service.Update(ctx, existing.ID, req)

		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repos.Customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing customer", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewCustomerService(repos.Customers, repos.Scope)
		id := uuid.New()

		repos.Customers.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, validRequest())

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("returns confirmation", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewCustomerService(repos.Customers, repos.Scope)
		existing := newTestCustomer(t, "Acme Corp")

		repos.Customers.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Invoices.On("CountByCustomer", ctx, existing.ID).Return(int64(0), nil)
		repos.Customers.On("Delete", ctx, existing.ID).Return(nil)

		result, err := service.Delete(ctx, existing.ID)

		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.Equal(t, existing.ID, result.ID)
		assert.Equal(t, "Customer deleted successfully", result.Message)
		repos.AssertExpectations(t)
	})

	t.Run("refuses when invoices reference the customer", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewCustomerService(repos.Customers, repos.Scope)
		existing := newTestCustomer(t, "Acme Corp")

		repos.Customers.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Invoices.On("CountByCustomer", ctx, existing.ID).Return(int64(3), nil)

		result, err := service.Delete(ctx, existing.ID)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, shared.ErrConflict))
		repos.Customers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
