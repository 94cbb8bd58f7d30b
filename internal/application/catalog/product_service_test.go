package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/apptest"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, description string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(description, decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)

		repos.Products.On("ExistsByDescription", ctx, "Widget", (*uuid.UUID)(nil)).Return(false, nil)
		repos.Products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		result, err := service.Create(ctx, ProductRequest{Description: "Widget", Price: decimal.NewFromFloat(9.5)})

		require.NoError(t, err)
		assert.Equal(t, "Widget", result.Description)
		assert.True(t, result.Price.Equal(decimal.NewFromFloat(9.5)))
		repos.AssertExpectations(t)
	})

	t.Run("duplicate description conflicts", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)

		repos.Products.On("ExistsByDescription", ctx, "Widget", (*uuid.UUID)(nil)).Return(true, nil)

		result, err := service.Create(ctx, ProductRequest{Description: "Widget", Price: decimal.NewFromInt(1)})

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repos.Products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative price fails validation before lookup", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)

		_, err := service.Create(ctx, ProductRequest{Description: "Widget", Price: decimal.NewFromInt(-1)})

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		repos.Products.AssertNotCalled(t, "ExistsByDescription", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes itself from the uniqueness check", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)
		existing := newTestProduct(t, "Widget")

		repos.Products.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Products.On("ExistsByDescription", ctx, "Widget", &existing.ID).Return(false, nil)
		repos.Products.On("Save", ctx, existing).Return(nil)

		result, err := service.Update(ctx, existing.ID, ProductRequest{Description: "Widget", Price: decimal.NewFromInt(15)})

		require.NoError(t, err)
		assert.True(t, result.Price.Equal(decimal.NewFromInt(15)))
		repos.AssertExpectations(t)
	})

	t.Run("conflicts with another product", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)
		existing := newTestProduct(t, "Widget")

		repos.Products.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		repos.Products.On("ExistsByDescription", ctx, "Gadget", &existing.ID).Return(true, nil)

		_, err := service.Update(ctx, existing.ID, ProductRequest{Description: "Gadget", Price: decimal.NewFromInt(15)})

		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("not found", func(t *testing.T) {
		repos := apptest.NewRepos()
		service := NewProductService(repos.Products, repos.Scope)
		id := uuid.New()

		repos.Products.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, ProductRequest{Description: "Gadget"})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestProductService_Delete_CascadesLineItems(t *testing.T) {
	ctx := context.Background()
	repos := apptest.NewRepos()
	service := NewProductService(repos.Products, repos.Scope)
	existing := newTestProduct(t, "Widget")
	affected := []uuid.UUID{uuid.New(), uuid.New()}

	repos.Products.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
	repos.Invoices.On("DeleteLineItemsByProduct", ctx, existing.ID).Return(affected, nil)
	repos.Products.On("Delete", ctx, existing.ID).Return(nil)

	result, err := service.Delete(ctx, existing.ID)

	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, "Product deleted successfully", result.Message)
	assert.Equal(t, affected, result.AffectedInvoices)
	repos.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repos := apptest.NewRepos()
	service := NewProductService(repos.Products, repos.Scope)
	expectedFilter := shared.Filter{Offset: 10, Limit: 5, OrderBy: "created_at", OrderDir: "asc", Search: "wid"}

	repos.Products.On("FindAll", ctx, expectedFilter).Return([]catalog.Product{}, nil)
	repos.Products.On("Count", ctx, expectedFilter).Return(int64(10), nil)

	result, total, err := service.List(ctx, ProductListFilter{Search: "wid", Skip: 10, Limit: 5})

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, int64(10), total)
}
