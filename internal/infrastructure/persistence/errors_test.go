package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	storage := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"foreign key", gorm.ErrForeignKeyViolated, shared.ErrConflict},
		{"check constraint", gorm.ErrCheckConstraintViolated, shared.ErrInvalidInput},
		{"wrapped check constraint", fmt.Errorf("insert products: %w", gorm.ErrCheckConstraintViolated), shared.ErrInvalidInput},
		{"other", storage, storage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
