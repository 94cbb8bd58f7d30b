package persistence

import (
	"context"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Line items are stored in invoice_items and always loaded in position order.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// recomputedTotal sums the stored line items of the invoice row being updated
var recomputedTotal = gorm.Expr("(SELECT COALESCE(SUM(invoice_items.total), 0) FROM invoice_items WHERE invoice_items.invoice_id = invoices.id)")

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("invoice_items.position ASC")
}

// FindByID finds an invoice with its line items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems", orderedItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the invoice row, then loads its line items
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	db := r.db.WithContext(ctx)
	var model models.InvoiceModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := orderedItems(db.Where("invoice_id = ?", id)).Find(&model.LineItems).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices whose customer name matches filter.Search
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]invoicing.Invoice, error) {
	filter = filter.Normalize()
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).
		Select("invoices.*").
		Preload("LineItems", orderedItems).
		Order(orderClause("invoices", filter.OrderBy, filter.OrderDir, InvoiceSortFields)).
		Offset(filter.Offset).
		Limit(filter.Limit)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts invoices billed to customerID
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the invoice row and replaces all of its stored line items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if len(model.LineItems) == 0 {
			return nil
		}
		return tx.Create(&model.LineItems).Error
	})
	return translateError(err)
}

// Delete deletes an invoice and its line items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.InvoiceModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}

// DeleteLineItemsByProduct removes every line item for productID and
// recomputes the totals of the invoices that held them
func (r *GormInvoiceRepository) DeleteLineItemsByProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var affected []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InvoiceItemModel{}).
			Where("product_id = ?", productID).
			Distinct().
			Order("invoice_id").
			Pluck("invoice_id", &affected).Error; err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.InvoiceModel{}).
			Where("id IN ?", affected).
			Updates(map[string]any{
				"total":      recomputedTotal,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	if affected == nil {
		affected = []uuid.UUID{}
	}
	return affected, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.
			Joins("JOIN customers ON customers.id = invoices.customer_id").
			Where("LOWER(customers.name) LIKE LOWER(?)"+likeEscape, containsPattern(filter.Search))
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
