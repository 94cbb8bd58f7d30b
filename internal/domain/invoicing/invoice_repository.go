package invoicing

import (
	"context"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository loads and stores invoices together with their line items
type InvoiceRepository interface {
	// FindByID finds an invoice with its line items in position order
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate is FindByID holding a row write lock on the invoice
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds invoices whose customer name contains filter.Search,
	// case-insensitively, with their line items
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCustomer counts invoices that reference the customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// Save creates or updates an invoice and replaces its stored line items
	// with inv.LineItems
	Save(ctx context.Context, inv *Invoice) error

	// Delete deletes an invoice and its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteLineItemsByProduct removes every line item referencing productID,
	// recomputes the totals of the affected invoices and returns their IDs
	DeleteLineItemsByProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
}
