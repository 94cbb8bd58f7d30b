package invoicing

import (
	"strings"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of date_issued and invoice_due_date
const DateLayout = time.DateOnly

// LineItemRequest is one line of an invoice request.
// lineitem_total is authoritative and is not checked against the product price.
type LineItemRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"lineitem_qty"`
	Total     decimal.Decimal `json:"lineitem_total"`
}

// CreateInvoiceRequest represents a request to create an invoice.
// invoice_status is accepted for compatibility; a created invoice is always submitted.
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	DateIssued string            `json:"date_issued" example:"2024-01-15"`
	Terms      string            `json:"invoice_terms" example:"Net 30"`
	Status     string            `json:"invoice_status,omitempty" example:"draft"`
	LineItems  []LineItemRequest `json:"line_items"`
}

// ReplaceInvoiceRequest represents a full replacement of an invoice
type ReplaceInvoiceRequest struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	DateIssued string            `json:"date_issued" example:"2024-01-15"`
	Terms      string            `json:"invoice_terms" example:"Net 30"`
	LineItems  []LineItemRequest `json:"line_items"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID        uuid.UUID       `json:"lineitem_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"lineitem_qty"`
	Total     decimal.Decimal `json:"lineitem_total"`
}

// InvoiceResponse represents an invoice with the denormalized customer block
type InvoiceResponse struct {
	ID              uuid.UUID          `json:"invoice_id"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerAddress string             `json:"customer_address"`
	CustomerPhone   string             `json:"customer_phone"`
	DateIssued      string             `json:"date_issued"`
	Terms           string             `json:"invoice_terms"`
	DueDate         string             `json:"invoice_due_date"`
	Status          string             `json:"invoice_status"`
	Total           decimal.Decimal    `json:"invoice_total"`
	LineItems       []LineItemResponse `json:"line_items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	CustomerName string `form:"customer_name"`
	Skip         int    `form:"skip" binding:"min=0"`
	Limit        int    `form:"limit" binding:"min=0,max=1000"`
}

func (f InvoiceListFilter) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = f.CustomerName
	filter.Offset = f.Skip
	filter.Limit = f.Limit
	return filter.Normalize()
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	Deleted bool      `json:"deleted"`
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// TermsResponse lists the recognized payment terms
type TermsResponse struct {
	Terms []string `json:"terms"`
}

// ToInvoiceResponse converts an invoice and its customer. A nil customer leaves
// the customer block empty.
func ToInvoiceResponse(inv *invoicing.Invoice, customer *partner.Customer) InvoiceResponse {
	resp := InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		DateIssued: formatDate(inv.DateIssued),
		Terms:      inv.Terms,
		DueDate:    formatDate(inv.DueDate),
		Status:     inv.Status.String(),
		Total:      inv.Total,
		LineItems:  make([]LineItemResponse, len(inv.LineItems)),
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	if customer != nil {
		resp.CustomerName = customer.Name
		resp.CustomerAddress = customer.Address
		resp.CustomerPhone = customer.Phone
	}
	for i, item := range inv.LineItems {
		resp.LineItems[i] = LineItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Total:     item.Total,
		}
	}
	return resp
}

func toLineItemInputs(items []LineItemRequest) []invoicing.LineItemInput {
	inputs := make([]invoicing.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = invoicing.LineItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Total:     item.Total,
		}
	}
	return inputs
}

// parseDate parses a YYYY-MM-DD date. An empty string yields the zero time,
// which entity validation reports as missing.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		var r shared.ValidationResult
		r.Add("date_issued", "must be a date in YYYY-MM-DD format")
		return time.Time{}, r.Err()
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
