package persistence

import (
	"context"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository stores products in the products table.
type GormProductRepository struct {
	rows table[models.ProductModel, catalog.Product]
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{rows: table[models.ProductModel, catalog.Product]{
		db:         db,
		name:       "products",
		search:     "description",
		sortFields: ProductSortFields,
		toDomain:   (*models.ProductModel).ToDomain,
	}}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.rows.first(ctx, id, false)
}

func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.rows.first(ctx, id, true)
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return r.rows.many(ctx, ids)
}

func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return r.rows.page(ctx, filter)
}

func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.rows.count(ctx, filter)
}

func (r *GormProductRepository) ExistsByDescription(ctx context.Context, description string, excludeID *uuid.UUID) (bool, error) {
	return r.rows.taken(ctx, "description", description, excludeID)
}

func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.rows.save(ctx, models.ProductModelFromDomain(product))
}

// Delete removes the product row only. Callers delete its line items first.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rows.remove(ctx, id)
}
