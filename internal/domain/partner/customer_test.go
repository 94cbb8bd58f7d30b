package partner

import (
	"errors"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer successfully", func(t *testing.T) {
		customer, err := NewCustomer("Acme Corp", "1 Main St", "1234567890", "billing@acme.com")

		require.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, "Acme Corp", customer.Name)
		assert.Equal(t, "1 Main St", customer.Address)
		assert.Equal(t, "1234567890", customer.Phone)
		assert.Equal(t, "billing@acme.com", customer.Email)
		assert.Equal(t, 1, customer.Version)
	})

	t.Run("email is optional", func(t *testing.T) {
		customer, err := NewCustomer("Acme Corp", "1 Main St", "1234567890", "")

		require.NoError(t, err)
		assert.Empty(t, customer.Email)
	})

	t.Run("trims name and address", func(t *testing.T) {
		customer, err := NewCustomer("  Acme Corp ", " 1 Main St ", "1234567890", "")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", customer.Name)
		assert.Equal(t, "1 Main St", customer.Address)
	})

	t.Run("fails with five digit phone", func(t *testing.T) {
		customer, err := NewCustomer("Acme Corp", "1 Main St", "12345", "")

		assert.Nil(t, customer)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})

	t.Run("fails with non numeric phone", func(t *testing.T) {
		_, err := NewCustomer("Acme Corp", "1 Main St", "12345abcde", "")

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})

	t.Run("collects every violation", func(t *testing.T) {
		_, err := NewCustomer("  ", "", "12", "nobody")

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		fields := make([]string, 0, len(domainErr.Details))
		for _, d := range domainErr.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"customer_name", "customer_address", "customer_phone", "customer_email"}, fields)
	})

	t.Run("rejects email without dot", func(t *testing.T) {
		_, err := NewCustomer("Acme Corp", "1 Main St", "1234567890", "billing@acme")

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})
}

func TestCustomer_Replace(t *testing.T) {
	customer, err := NewCustomer("Acme Corp", "1 Main St", "1234567890", "")
	require.NoError(t, err)

	t.Run("replaces all fields and bumps version", func(t *testing.T) {
		err := customer.Replace("Acme Inc", "2 High St", "0987654321", "ap@acme.io")

		require.NoError(t, err)
		assert.Equal(t, "Acme Inc", customer.Name)
		assert.Equal(t, "2 High St", customer.Address)
		assert.Equal(t, "0987654321", customer.Phone)
		assert.Equal(t, "ap@acme.io", customer.Email)
		assert.Equal(t, 2, customer.Version)
	})

	t.Run("leaves customer unchanged on invalid input", func(t *testing.T) {
		err := customer.Replace("", "3 Low St", "0987654321", "")

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		assert.Equal(t, "Acme Inc", customer.Name)
		assert.Equal(t, "2 High St", customer.Address)
		assert.Equal(t, 2, customer.Version)
	})
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"1234567890", true},
		{"12345", false},
		{"12345678901", false},
		{"123-456-789", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.phone))
		})
	}
}
