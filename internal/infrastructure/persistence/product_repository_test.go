package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Widget", "9.99")

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Description)
	assert.True(t, decimal.RequireFromString("9.99").Equal(found.Price), "price %s", found.Price)

	locked, err := repo.FindByIDForUpdate(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, locked.Replace("Widget XL", decimal.RequireFromString("12.50")))
	require.NoError(t, repo.Save(ctx, locked))

	found, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", found.Description)
	assert.Equal(t, 2, found.Version)
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	widget := seedProduct(t, db, "Blue Widget", "1.00")
	seedProduct(t, db, "Gadget", "2.00")
	big := seedProduct(t, db, "WIDGET Pro", "3.00")

	filter := shared.DefaultFilter()
	filter.Search = "widget"

	products, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, widget.ID, products[0].ID)
	assert.Equal(t, big.ID, products[1].ID)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	byIDs, err := repo.FindByIDs(ctx, []uuid.UUID{widget.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}

func TestGormProductRepository_ExistsByDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Widget", "1.00")

	exists, err := repo.ExistsByDescription(ctx, "Widget", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByDescription(ctx, "Widget", &p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	dup, err := catalog.NewProduct("Widget", decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "Widget", "1.00")

		require.NoError(t, repo.Delete(context.Background(), p.ID))
		_, err := repo.FindByID(context.Background(), p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
