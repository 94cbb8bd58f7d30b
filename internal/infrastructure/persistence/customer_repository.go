package persistence

import (
	"context"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository stores customers in the customers table.
type GormCustomerRepository struct {
	rows table[models.CustomerModel, partner.Customer]
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{rows: table[models.CustomerModel, partner.Customer]{
		db:         db,
		name:       "customers",
		search:     "name",
		sortFields: CustomerSortFields,
		toDomain:   (*models.CustomerModel).ToDomain,
	}}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.rows.first(ctx, id, false)
}

// FindByIDForUpdate holds a row lock until the surrounding transaction ends.
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.rows.first(ctx, id, true)
}

// FindByIDs skips unknown ids; the result is unordered.
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	return r.rows.many(ctx, ids)
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	return r.rows.page(ctx, filter)
}

func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.rows.count(ctx, filter)
}

func (r *GormCustomerRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	return r.rows.taken(ctx, "name", name, excludeID)
}

func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.rows.save(ctx, models.CustomerModelFromDomain(customer))
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rows.remove(ctx, id)
}
