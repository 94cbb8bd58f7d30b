package catalog

import (
	"errors"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product successfully", func(t *testing.T) {
		product, err := NewProduct("Widget", decimal.NewFromFloat(9.99))

		require.NoError(t, err)
		assert.Equal(t, "Widget", product.Description)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(9.99)))
	})

	t.Run("allows zero price", func(t *testing.T) {
		product, err := NewProduct("Free sample", decimal.Zero)

		require.NoError(t, err)
		assert.True(t, product.Price.IsZero())
	})

	t.Run("fails with negative price", func(t *testing.T) {
		product, err := NewProduct("Widget", decimal.NewFromInt(-1))

		assert.Nil(t, product)
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})

	t.Run("fails with price finer than the stored scale", func(t *testing.T) {
		_, err := NewProduct("Screw", decimal.RequireFromString("0.00004"))

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, []shared.FieldViolation{
			{Field: "product_price", Message: "must have at most 4 decimal places"},
		}, domainErr.Details)
	})

	t.Run("allows four decimal places", func(t *testing.T) {
		product, err := NewProduct("Screw", decimal.RequireFromString("0.0004"))

		require.NoError(t, err)
		assert.Equal(t, "0.0004", product.Price.String())
	})

	t.Run("reports description and price together", func(t *testing.T) {
		_, err := NewProduct(" ", decimal.NewFromInt(-5))

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Len(t, domainErr.Details, 2)
		assert.Equal(t, "product_description", domainErr.Details[0].Field)
		assert.Equal(t, "product_price", domainErr.Details[1].Field)
	})
}

func TestProduct_Replace(t *testing.T) {
	product, err := NewProduct("Widget", decimal.NewFromInt(10))
	require.NoError(t, err)

	err = product.Replace("Widget XL", decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", product.Description)
	assert.Equal(t, 2, product.Version)

	err = product.Replace("Widget XXL", decimal.NewFromInt(-12))
	assert.Error(t, err)
	assert.Equal(t, "Widget XL", product.Description)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(12)))
}
