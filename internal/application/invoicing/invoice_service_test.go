package invoicing

import (
	"context"
	"errors"
	"testing"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/application/apptest"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingMetrics struct {
	created  []decimal.Decimal
	replaced []decimal.Decimal
	deleted  int
}

func (m *recordingMetrics) RecordInvoiceCreated(_ context.Context, total decimal.Decimal, _ int) {
	m.created = append(m.created, total)
}

func (m *recordingMetrics) RecordInvoiceReplaced(_ context.Context, total decimal.Decimal, _ int) {
	m.replaced = append(m.replaced, total)
}

func (m *recordingMetrics) RecordInvoiceDeleted(context.Context) {
	m.deleted++
}

type fixture struct {
	repos    *apptest.Repos
	metrics  *recordingMetrics
	service  *InvoiceService
	customer *partner.Customer
	widget   *catalog.Product
	gadget   *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := apptest.NewRepos()
	metrics := &recordingMetrics{}

	customer, err := partner.NewCustomer("Acme Corp", "1 Main St", "1234567890", "")
	require.NoError(t, err)
	widget, err := catalog.NewProduct("Widget", decimal.NewFromInt(10))
	require.NoError(t, err)
	gadget, err := catalog.NewProduct("Gadget", decimal.NewFromInt(25))
	require.NoError(t, err)

	return &fixture{
		repos:    repos,
		metrics:  metrics,
		service:  NewInvoiceService(repos.Invoices, repos.Customers, repos.Products, repos.Scope, WithMetrics(metrics)),
		customer: customer,
		widget:   widget,
		gadget:   gadget,
	}
}

func (f *fixture) createRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		DateIssued: "2024-01-15",
		Terms:      invoicing.TermsNet30,
		LineItems: []LineItemRequest{
			{ProductID: f.widget.ID, Quantity: 1, Total: decimal.NewFromInt(10)},
			{ProductID: f.gadget.ID, Quantity: 2, Total: decimal.RequireFromString("25.5")},
		},
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals and submits", func(t *testing.T) {
		f := newFixture(t)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.repos.Products.On("FindByIDs", ctx, []uuid.UUID{f.widget.ID, f.gadget.ID}).
			Return([]catalog.Product{*f.widget, *f.gadget}, nil)
		f.repos.Invoices.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		req := f.createRequest()
		req.Status = "draft"
		result, err := f.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "submitted", result.Status)
		assert.Equal(t, "2024-02-14", result.DueDate)
		assert.True(t, result.Total.Equal(decimal.RequireFromString("35.5")))
		assert.Equal(t, "Acme Corp", result.CustomerName)
		assert.Equal(t, "1234567890", result.CustomerPhone)
		assert.Len(t, result.LineItems, 2)
		assert.Len(t, f.metrics.created, 1)
		f.repos.AssertExpectations(t)
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		f := newFixture(t)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(nil, shared.ErrNotFound)

		result, err := f.service.Create(ctx, f.createRequest())

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Contains(t, err.Error(), "Customer "+f.customer.ID.String())
		f.repos.Invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.metrics.created)
	})

	t.Run("unknown product is reported per line", func(t *testing.T) {
		f := newFixture(t)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.repos.Products.On("FindByIDs", ctx, []uuid.UUID{f.widget.ID, f.gadget.ID}).
			Return([]catalog.Product{*f.widget}, nil)

		_, err := f.service.Create(ctx, f.createRequest())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
		require.Len(t, domainErr.Details, 1)
		assert.Equal(t, "line_items[1].product_id", domainErr.Details[0].Field)
	})

	t.Run("field violations are collected before any lookup", func(t *testing.T) {
		f := newFixture(t)
		req := CreateInvoiceRequest{
			CustomerID: f.customer.ID,
			LineItems:  []LineItemRequest{{ProductID: f.widget.ID, Quantity: 0, Total: decimal.Zero}},
		}

		_, err := f.service.Create(ctx, req)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeValidationFailed, domainErr.Code)
		fields := make([]string, 0, len(domainErr.Details))
		for _, d := range domainErr.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "date_issued")
		assert.Contains(t, fields, "invoice_terms")
		assert.Contains(t, fields, "line_items[0].lineitem_qty")
		assert.Contains(t, fields, "line_items[0].lineitem_total")
		f.repos.Customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture(t)
		req := f.createRequest()
		req.DateIssued = "15/01/2024"

		_, err := f.service.Create(ctx, req)

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})
}

func TestInvoiceService_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces line items and returns to draft", func(t *testing.T) {
		f := newFixture(t)
		existing, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 15), invoicing.TermsNet30, "", []invoicing.LineItemInput{
			{ProductID: f.widget.ID, Quantity: 1, Total: decimal.NewFromInt(10)},
			{ProductID: f.gadget.ID, Quantity: 1, Total: decimal.NewFromInt(25)},
		})
		require.NoError(t, err)
		existing.Submit()

		f.repos.Invoices.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.repos.Products.On("FindByIDs", ctx, []uuid.UUID{f.widget.ID}).Return([]catalog.Product{*f.widget}, nil)
		f.repos.Invoices.On("Save", ctx, existing).Return(nil)

		result, err := f.service.Replace(ctx, existing.ID, ReplaceInvoiceRequest{
			CustomerID: f.customer.ID,
			DateIssued: "2024-01-15",
			Terms:      invoicing.TermsEndOfNextMonth,
			LineItems:  []LineItemRequest{{ProductID: f.widget.ID, Quantity: 1, Total: decimal.NewFromInt(5)}},
		})

		require.NoError(t, err)
		assert.Equal(t, "draft", result.Status)
		assert.Equal(t, "2024-02-29", result.DueDate)
		assert.Len(t, result.LineItems, 1)
		assert.True(t, result.Total.Equal(decimal.NewFromInt(5)))
		assert.Len(t, f.metrics.replaced, 1)
		f.repos.AssertExpectations(t)
	})

	t.Run("missing invoice", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repos.Invoices.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Replace(ctx, id, ReplaceInvoiceRequest{CustomerID: f.customer.ID, DateIssued: "2024-01-15", Terms: "Net 15"})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Contains(t, err.Error(), "Invoice "+id.String())
	})

	t.Run("invalid replacement leaves invoice untouched", func(t *testing.T) {
		f := newFixture(t)
		existing, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 15), invoicing.TermsNet30, "", nil)
		require.NoError(t, err)
		f.repos.Invoices.On("FindByIDForUpdate", ctx, existing.ID).Return(existing, nil)

		_, err = f.service.Replace(ctx, existing.ID, ReplaceInvoiceRequest{CustomerID: f.customer.ID, DateIssued: "2024-03-01"})

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		assert.Equal(t, invoicing.TermsNet30, existing.Terms)
		f.repos.Invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("denormalizes the customer", func(t *testing.T) {
		f := newFixture(t)
		inv, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 15), invoicing.TermsDueOnReceipt, "", nil)
		require.NoError(t, err)
		f.repos.Invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)

		result, err := f.service.Get(ctx, inv.ID)

		require.NoError(t, err)
		assert.Equal(t, "1 Main St", result.CustomerAddress)
		assert.Equal(t, "2024-01-15", result.DueDate)
		assert.NotNil(t, result.LineItems)
	})

	t.Run("missing customer leaves the block empty", func(t *testing.T) {
		f := newFixture(t)
		inv, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 15), invoicing.TermsDueOnReceipt, "", nil)
		require.NoError(t, err)
		f.repos.Invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(nil, shared.ErrNotFound)

		result, err := f.service.Get(ctx, inv.ID)

		require.NoError(t, err)
		assert.Empty(t, result.CustomerName)
	})
}

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 1), invoicing.TermsNet15, "", nil)
	require.NoError(t, err)
	second, err := invoicing.NewInvoice(f.customer.ID, date(2024, 2, 1), invoicing.TermsNet15, "", nil)
	require.NoError(t, err)

	expectedFilter := shared.Filter{Offset: 0, Limit: 100, OrderBy: "created_at", OrderDir: "asc", Search: "acme"}
	f.repos.Invoices.On("FindAll", ctx, expectedFilter).Return([]invoicing.Invoice{*first, *second}, nil)
	f.repos.Invoices.On("Count", ctx, expectedFilter).Return(int64(2), nil)
	f.repos.Customers.On("FindByIDs", ctx, []uuid.UUID{f.customer.ID}).Return([]partner.Customer{*f.customer}, nil)

	result, total, err := f.service.List(ctx, InvoiceListFilter{CustomerName: "acme"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, result, 2)
	assert.Equal(t, "Acme Corp", result[1].CustomerName)
	f.repos.AssertExpectations(t)
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		inv, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 1), invoicing.TermsNet15, "", nil)
		require.NoError(t, err)
		f.repos.Invoices.On("FindByIDForUpdate", ctx, inv.ID).Return(inv, nil)
		f.repos.Invoices.On("Delete", ctx, inv.ID).Return(nil)

		result, err := f.service.Delete(ctx, inv.ID)

		require.NoError(t, err)
		assert.Equal(t, &DeleteResponse{Deleted: true, ID: inv.ID, Message: "Invoice deleted successfully"}, result)
		assert.Equal(t, 1, f.metrics.deleted)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repos.Invoices.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Delete(ctx, id)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Zero(t, f.metrics.deleted)
	})
}

func TestInvoiceService_Terms(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, invoicing.KnownTerms(), f.service.Terms().Terms)
}

func TestInvoiceService_Create_UnknownTermsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	f := newFixture(t)
	f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
	f.repos.Products.On("FindByIDs", ctx, []uuid.UUID{f.widget.ID, f.gadget.ID}).
		Return([]catalog.Product{*f.widget, *f.gadget}, nil)
	f.repos.Invoices.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	req := f.createRequest()
	req.Terms = "Net 90"
	result, err := f.service.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", result.DueDate)
	entries := logs.FilterField(zap.String("invoice_terms", "Net 90")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Unrecognized payment terms, due date set to issue date", entries[0].Message)
}
