// Package transaction defines the unit-of-work boundary used by the
// application services.
package transaction

import (
	"context"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
)

// Scope provides transactional access to the repositories.
// All repository operations made inside Execute are committed or rolled back together.
type Scope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundaries:
//   - InvoiceRepo owns Invoice and its LineItems. Line items have no repository of their own.
//   - CustomerRepo and ProductRepo are used inside a transaction for reference
//     checks and for row-locked replaces.
type Repositories interface {
	CustomerRepo() partner.CustomerRepository
	ProductRepo() catalog.ProductRepository
	InvoiceRepo() invoicing.InvoiceRepository
}

// NoOpScope is a scope that doesn't actually use transactions.
// Useful for unit tests with mocked repositories.
type NoOpScope struct {
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	invoiceRepo  invoicing.InvoiceRepository
}

// NewNoOpScope creates a NoOpScope with the given repositories.
func NewNoOpScope(
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	invoiceRepo invoicing.InvoiceRepository,
) *NoOpScope {
	return &NoOpScope{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// CustomerRepo returns the customer repository.
func (s *NoOpScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// ProductRepo returns the product repository.
func (s *NoOpScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpScope) InvoiceRepo() invoicing.InvoiceRepository {
	return s.invoiceRepo
}

var (
	_ Scope        = (*NoOpScope)(nil)
	_ Repositories = (*NoOpScope)(nil)
)
