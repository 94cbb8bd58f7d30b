package catalog

import (
	"context"
	"errors"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/transaction"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	txScope     transaction.Scope
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, txScope transaction.Scope) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// Create creates a new product with a unique description
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if err := ensureDescriptionAvailable(ctx, s.productRepo, product.Description, nil); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Product created", zap.String("product_id", product.ID.String()))
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, productID)
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products whose description contains filter.Search
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := filter.toFilter()

	products, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update replaces description and price while holding the product row lock.
// The description is re-checked against every other product.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	var updated *catalog.Product
	err := s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		productRepo := repos.ProductRepo()

		product, err := productRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return notFound(err, productID)
		}

		if err := product.Replace(req.Description, req.Price); err != nil {
			return err
		}

		if err := ensureDescriptionAvailable(ctx, productRepo, product.Description, &product.ID); err != nil {
			return err
		}

		if err := productRepo.Save(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(updated)
	return &response, nil
}

// Delete deletes a product together with every line item that references it.
// Totals of the affected invoices are recomputed in the same transaction.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) (*DeleteResponse, error) {
	var affected []uuid.UUID
	err := s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID); err != nil {
			return notFound(err, productID)
		}

		invoiceIDs, err := repos.InvoiceRepo().DeleteLineItemsByProduct(ctx, productID)
		if err != nil {
			return err
		}
		affected = invoiceIDs

		return repos.ProductRepo().Delete(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.Int("affected_invoices", len(affected)),
	)
	return &DeleteResponse{
		Deleted:          true,
		ID:               productID,
		Message:          "Product deleted successfully",
		AffectedInvoices: affected,
	}, nil
}

func ensureDescriptionAvailable(ctx context.Context, repo catalog.ProductRepository, description string, excludeID *uuid.UUID) error {
	exists, err := repo.ExistsByDescription(ctx, description, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewAlreadyExistsError("Product", "product_description", description)
	}
	return nil
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Product", id)
	}
	return err
}
