package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/transaction"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MetricsRecorder receives invoice lifecycle events for business metrics
type MetricsRecorder interface {
	RecordInvoiceCreated(ctx context.Context, total decimal.Decimal, lineItems int)
	RecordInvoiceReplaced(ctx context.Context, total decimal.Decimal, lineItems int)
	RecordInvoiceDeleted(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordInvoiceCreated(context.Context, decimal.Decimal, int)  {}
func (noopMetrics) RecordInvoiceReplaced(context.Context, decimal.Decimal, int) {}
func (noopMetrics) RecordInvoiceDeleted(context.Context)                        {}

// InvoiceServiceOption configures an InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) InvoiceServiceOption {
	return func(s *InvoiceService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// InvoiceService owns the invoice aggregate: creation, full replacement,
// lookup, listing and deletion.
type InvoiceService struct {
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	txScope      transaction.Scope
	metrics      MetricsRecorder
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	txScope transaction.Scope,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		txScope:      txScope,
		metrics:      noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new invoice. The stored invoice is always submitted.
//
// Field violations are reported first, then a missing customer, then missing products.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	dateIssued, err := parseDate(req.DateIssued)
	if err != nil {
		return nil, err
	}

	inv, err := invoicing.NewInvoice(req.CustomerID, dateIssued, req.Terms, invoicing.Status(req.Status), toLineItemInputs(req.LineItems))
	if err != nil {
		return nil, err
	}
	warnUnknownTerms(ctx, req.Terms)

	var customer *partner.Customer
	err = s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		c, err := s.checkReferences(ctx, repos, inv)
		if err != nil {
			return err
		}
		customer = c

		inv.Submit()
		return repos.InvoiceRepo().Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvoiceCreated(ctx, inv.Total, len(inv.LineItems))
	logger.L(ctx).Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("customer_id", inv.CustomerID.String()),
		zap.String("invoice_total", inv.Total.String()),
	)

	response := ToInvoiceResponse(inv, customer)
	return &response, nil
}

// Replace overwrites every field of an invoice and its whole line item collection
// while holding the invoice row lock. The invoice returns to draft.
func (s *InvoiceService) Replace(ctx context.Context, invoiceID uuid.UUID, req ReplaceInvoiceRequest) (*InvoiceResponse, error) {
	dateIssued, err := parseDate(req.DateIssued)
	if err != nil {
		return nil, err
	}
	items := toLineItemInputs(req.LineItems)
	warnUnknownTerms(ctx, req.Terms)

	var (
		updated  *invoicing.Invoice
		customer *partner.Customer
	)
	err = s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return invoiceNotFound(err, invoiceID)
		}

		if err := inv.Replace(req.CustomerID, dateIssued, req.Terms, items); err != nil {
			return err
		}

		c, err := s.checkReferences(ctx, repos, inv)
		if err != nil {
			return err
		}
		customer = c

		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvoiceReplaced(ctx, updated.Total, len(updated.LineItems))
	logger.L(ctx).Info("Invoice replaced",
		zap.String("invoice_id", updated.ID.String()),
		zap.Int("line_items", len(updated.LineItems)),
	)

	response := ToInvoiceResponse(updated, customer)
	return &response, nil
}

// Get retrieves an invoice with its line items and customer details
func (s *InvoiceService) Get(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, invoiceNotFound(err, invoiceID)
	}

	customer, err := s.customerRepo.FindByID(ctx, inv.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	response := ToInvoiceResponse(inv, customer)
	return &response, nil
}

// List retrieves invoices whose customer name contains filter.CustomerName
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	f := filter.toFilter()

	invoices, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	customers, err := s.customersByID(ctx, invoices)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i], customers[invoices[i].CustomerID])
	}
	return responses, total, nil
}

// Delete removes an invoice and its line items
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) (*DeleteResponse, error) {
	err := s.txScope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID); err != nil {
			return invoiceNotFound(err, invoiceID)
		}
		return repos.InvoiceRepo().Delete(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvoiceDeleted(ctx)
	logger.L(ctx).Info("Invoice deleted", zap.String("invoice_id", invoiceID.String()))

	return &DeleteResponse{
		Deleted: true,
		ID:      invoiceID,
		Message: "Invoice deleted successfully",
	}, nil
}

// Terms lists the payment terms the due date calculation recognizes
func (s *InvoiceService) Terms() TermsResponse {
	return TermsResponse{Terms: invoicing.KnownTerms()}
}

// checkReferences loads the invoice customer and verifies that every referenced
// product exists. Missing products are reported per line item.
// warnUnknownTerms logs terms that DueDate treats as due on the issue date
func warnUnknownTerms(ctx context.Context, terms string) {
	if !invoicing.IsKnownTerms(terms) {
		logger.L(ctx).Warn("Unrecognized payment terms, due date set to issue date",
			zap.String("invoice_terms", terms))
	}
}

func (s *InvoiceService) checkReferences(ctx context.Context, repos transaction.Repositories, inv *invoicing.Invoice) (*partner.Customer, error) {
	customer, err := repos.CustomerRepo().FindByID(ctx, inv.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Customer", inv.CustomerID)
		}
		return nil, err
	}

	productIDs := inv.ProductIDs()
	if len(productIDs) == 0 {
		return customer, nil
	}

	products, err := repos.ProductRepo().FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}

	var missing []shared.FieldViolation
	for i, item := range inv.LineItems {
		if _, ok := found[item.ProductID]; !ok {
			missing = append(missing, shared.FieldViolation{
				Field:   fmt.Sprintf("line_items[%d].product_id", i),
				Message: fmt.Sprintf("Product %s not found", item.ProductID),
			})
		}
	}
	if len(missing) > 0 {
		return nil, &shared.DomainError{
			Code:    shared.CodeNotFound,
			Message: "Referenced products not found",
			Details: missing,
		}
	}
	return customer, nil
}

func (s *InvoiceService) customersByID(ctx context.Context, invoices []invoicing.Invoice) (map[uuid.UUID]*partner.Customer, error) {
	result := make(map[uuid.UUID]*partner.Customer)
	if len(invoices) == 0 {
		return result, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(invoices))
	ids := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		if _, ok := seen[inv.CustomerID]; ok {
			continue
		}
		seen[inv.CustomerID] = struct{}{}
		ids = append(ids, inv.CustomerID)
	}

	customers, err := s.customerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		result[customers[i].ID] = &customers[i]
	}
	return result, nil
}

func invoiceNotFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Invoice", id)
	}
	return err
}
