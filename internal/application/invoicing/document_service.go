package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CodeRendererUnavailable is returned when PDF rendering is not configured
const CodeRendererUnavailable = "DOCUMENT_RENDERER_UNAVAILABLE"

// ErrRendererUnavailable is returned by RenderPDF when no renderer is configured
var ErrRendererUnavailable = shared.NewDomainError(CodeRendererUnavailable, "Invoice document rendering is not available")

// PDFContentType is the MIME type of rendered invoice documents
const PDFContentType = "application/pdf"

// DocumentLine is one printable invoice line
type DocumentLine struct {
	Description string
	Quantity    int
	Total       decimal.Decimal
}

// InvoiceDocument is everything printed on an invoice
type InvoiceDocument struct {
	InvoiceID       uuid.UUID
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerEmail   string
	DateIssued      time.Time
	DueDate         time.Time
	Terms           string
	Status          invoicing.Status
	Total           decimal.Decimal
	Lines           []DocumentLine
}

// DocumentRenderer turns an invoice document into PDF bytes
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// DocumentArchive stores rendered documents
type DocumentArchive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// RenderedDocument is a rendered invoice PDF
type RenderedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentService renders invoices to PDF and optionally archives the result
type DocumentService struct {
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	renderer     DocumentRenderer
	archive      DocumentArchive
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService. renderer and archive may be nil.
func NewDocumentService(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	renderer DocumentRenderer,
	archive DocumentArchive,
	logger *zap.Logger,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		renderer:     renderer,
		archive:      archive,
		logger:       logger,
	}
}

// ArchiveKey returns the object key an invoice PDF is archived under
func ArchiveKey(invoiceID uuid.UUID) string {
	return fmt.Sprintf("invoices/%s.pdf", invoiceID)
}

// RenderPDF renders an invoice. Archive failures are logged and do not fail the call.
func (s *DocumentService) RenderPDF(ctx context.Context, invoiceID uuid.UUID) (_ *RenderedDocument, err error) {
	if s.renderer == nil {
		return nil, ErrRendererUnavailable
	}

	ctx, span := telemetry.StartSpan(ctx, "DocumentService", "RenderPDF",
		attribute.String("invoice.id", invoiceID.String()))
	defer telemetry.FinishSpan(span, &err)

	doc, err := s.BuildDocument(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var data []byte
	telemetry.WithProfilingLabels(ctx, map[string]string{"operation": "render_invoice_pdf"}, func(c context.Context) {
		data, err = s.renderer.RenderInvoice(c, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoiceID, err)
	}
	span.SetAttributes(attribute.Int("document.bytes", len(data)))

	if s.archive != nil {
		if archiveErr := s.archive.Put(ctx, ArchiveKey(invoiceID), PDFContentType, data); archiveErr != nil {
			s.logger.Warn("failed to archive invoice document",
				zap.String("invoice_id", invoiceID.String()),
				zap.Error(archiveErr))
		}
	}

	return &RenderedDocument{
		Filename:    fmt.Sprintf("Invoice-%s.pdf", invoiceID),
		ContentType: PDFContentType,
		Data:        data,
	}, nil
}

// BuildDocument gathers the invoice, its customer and product descriptions.
// Lines whose product no longer resolves keep an empty description.
func (s *DocumentService) BuildDocument(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDocument, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, invoiceNotFound(err, invoiceID)
	}

	doc := &InvoiceDocument{
		InvoiceID:  inv.ID,
		DateIssued: inv.DateIssued,
		DueDate:    inv.DueDate,
		Terms:      inv.Terms,
		Status:     inv.Status,
		Total:      inv.Total,
		Lines:      make([]DocumentLine, len(inv.LineItems)),
	}

	customer, err := s.customerRepo.FindByID(ctx, inv.CustomerID)
	switch {
	case err == nil:
		doc.CustomerName = customer.Name
		doc.CustomerAddress = customer.Address
		doc.CustomerPhone = customer.Phone
		doc.CustomerEmail = customer.Email
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	descriptions := make(map[uuid.UUID]string)
	if ids := inv.ProductIDs(); len(ids) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		for _, p := range products {
			descriptions[p.ID] = p.Description
		}
	}

	for i, item := range inv.LineItems {
		doc.Lines[i] = DocumentLine{
			Description: descriptions[item.ProductID],
			Quantity:    item.Quantity,
			Total:       item.Total,
		}
	}
	return doc, nil
}
