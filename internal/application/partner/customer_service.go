package partner

import (
	"context"
	"errors"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/transaction"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	txScope      transaction.Scope
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, txScope transaction.Scope) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		txScope:      txScope,
	}
}

// Create creates a new customer. The name must not be used by another customer.
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Address, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, s.customerRepo, customer.Name, nil); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Customer created", zap.String("customer_id", customer.ID.String()))
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, notFound(err, customerID)
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers whose name contains filter.Name, with skip/limit paging
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	f := filter.toFilter()

	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update replaces every field of a customer while holding its row lock
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	var updated *partner.Customer
	err := s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		customerRepo := repos.CustomerRepo()

		customer, err := customerRepo.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return notFound(err, customerID)
		}

		if err := customer.Replace(req.Name, req.Address, req.Phone, req.Email); err != nil {
			return err
		}

		if err := s.ensureNameAvailable(ctx, customerRepo, customer.Name, &customer.ID); err != nil {
			return err
		}

		if err := customerRepo.Save(ctx, customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(updated)
	return &response, nil
}

// Delete deletes a customer. Customers still referenced by invoices cannot be deleted.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) (*DeleteResponse, error) {
	err := s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.CustomerRepo().FindByIDForUpdate(ctx, customerID); err != nil {
			return notFound(err, customerID)
		}

		count, err := repos.InvoiceRepo().CountByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError(shared.CodeConflict, "Customer is referenced by existing invoices")
		}

		return repos.CustomerRepo().Delete(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Customer deleted", zap.String("customer_id", customerID.String()))
	return &DeleteResponse{
		Deleted: true,
		ID:      customerID,
		Message: "Customer deleted successfully",
	}, nil
}

func (s *CustomerService) ensureNameAvailable(ctx context.Context, repo partner.CustomerRepository, name string, excludeID *uuid.UUID) error {
	exists, err := repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewAlreadyExistsError("Customer", "customer_name", name)
	}
	return nil
}

// notFound gives repository NOT_FOUND errors a message naming the customer
func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Customer", id)
	}
	return err
}
