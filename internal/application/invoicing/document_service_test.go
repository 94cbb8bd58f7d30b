package invoicing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeRenderer struct {
	doc *InvoiceDocument
	err error
}

func (r *fakeRenderer) RenderInvoice(_ context.Context, doc *InvoiceDocument) ([]byte, error) {
	r.doc = doc
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4"), nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Put(_ context.Context, key, _ string, _ []byte) error {
	a.keys = append(a.keys, key)
	return a.err
}

func TestDocumentService_RenderPDF(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *invoicing.Invoice) {
		f := newFixture(t)
		inv, err := invoicing.NewInvoice(f.customer.ID, date(2024, 1, 15), invoicing.TermsEndOfMonth, "", []invoicing.LineItemInput{
			{ProductID: f.widget.ID, Quantity: 3, Total: decimal.NewFromInt(30)},
		})
		require.NoError(t, err)
		f.repos.Invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.repos.Customers.On("FindByID", ctx, f.customer.ID).Return(f.customer, nil)
		f.repos.Products.On("FindByIDs", ctx, []uuid.UUID{f.widget.ID}).Return([]catalog.Product{*f.widget}, nil)
		return f, inv
	}

	t.Run("renders and archives", func(t *testing.T) {
		f, inv := setup(t)
		renderer := &fakeRenderer{}
		archive := &fakeArchive{}
		service := NewDocumentService(f.repos.Invoices, f.repos.Customers, f.repos.Products, renderer, archive, nil)

		result, err := service.RenderPDF(ctx, inv.ID)

		require.NoError(t, err)
		assert.Equal(t, "Invoice-"+inv.ID.String()+".pdf", result.Filename)
		assert.Equal(t, PDFContentType, result.ContentType)
		assert.Equal(t, []string{"invoices/" + inv.ID.String() + ".pdf"}, archive.keys)
		require.Len(t, renderer.doc.Lines, 1)
		assert.Equal(t, "Widget", renderer.doc.Lines[0].Description)
		assert.Equal(t, "Acme Corp", renderer.doc.CustomerName)
		assert.Equal(t, date(2024, 1, 31), renderer.doc.DueDate)
	})

	t.Run("archive failure is not fatal", func(t *testing.T) {
		f, inv := setup(t)
		service := NewDocumentService(f.repos.Invoices, f.repos.Customers, f.repos.Products,
			&fakeRenderer{}, &fakeArchive{err: errors.New("bucket unavailable")}, nil)

		result, err := service.RenderPDF(ctx, inv.ID)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Data)
	})

	t.Run("render failure propagates", func(t *testing.T) {
		f, inv := setup(t)
		archive := &fakeArchive{}
		service := NewDocumentService(f.repos.Invoices, f.repos.Customers, f.repos.Products,
			&fakeRenderer{err: errors.New("chrome crashed")}, archive, nil)

		_, err := service.RenderPDF(ctx, inv.ID)

		require.Error(t, err)
		assert.Empty(t, archive.keys)
	})
}

func TestDocumentService_RendererUnavailable(t *testing.T) {
	f := newFixture(t)
	service := NewDocumentService(f.repos.Invoices, f.repos.Customers, f.repos.Products, nil, nil, nil)

	_, err := service.RenderPDF(context.Background(), uuid.New())

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeRendererUnavailable, domainErr.Code)
}

func TestDocumentService_InvoiceNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := uuid.New()
	f.repos.Invoices.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)
	service := NewDocumentService(f.repos.Invoices, f.repos.Customers, f.repos.Products, &fakeRenderer{}, nil, nil)

	_, err := service.RenderPDF(ctx, id)

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
