package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an invoice
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// LineItem is one billed line of an invoice.
// Total is supplied by the caller and is not derived from the product price.
type LineItem struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Total     decimal.Decimal
	Position  int
}

// LineItemInput carries the caller supplied fields of a line item
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Total     decimal.Decimal
}

// Validate checks the line item field invariants
func (li LineItem) Validate() shared.ValidationResult {
	var r shared.ValidationResult
	if li.ProductID == uuid.Nil {
		r.Add("product_id", "is required")
	}
	if li.Quantity <= 0 {
		r.Add("lineitem_qty", "must be greater than 0")
	}
	if !li.Total.IsPositive() {
		r.Add("lineitem_total", "must be greater than 0")
	} else {
		r.RequireScale("lineitem_total", li.Total)
	}
	return r
}

// Invoice is the aggregate root of the invoicing context.
// DueDate and Total are derived and recomputed on every create and replace.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	DateIssued time.Time
	Terms      string
	DueDate    time.Time
	Status     Status
	Total      decimal.Decimal
	LineItems  []LineItem
}

// NewInvoice creates a draft invoice for customerID. An empty status defaults to draft.
func NewInvoice(customerID uuid.UUID, dateIssued time.Time, terms string, status Status, items []LineItemInput) (*Invoice, error) {
	if status == "" {
		status = StatusDraft
	}
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            status,
	}
	inv.assign(customerID, dateIssued, terms, items)
	if err := inv.Validate().Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Replace overwrites every caller supplied field and discards all existing line
// items. The invoice returns to draft. It is left untouched when validation fails.
func (inv *Invoice) Replace(customerID uuid.UUID, dateIssued time.Time, terms string, items []LineItemInput) error {
	candidate := *inv
	candidate.Status = StatusDraft
	candidate.assign(customerID, dateIssued, terms, items)
	if err := candidate.Validate().Err(); err != nil {
		return err
	}
	*inv = candidate
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// Submit marks the invoice as submitted
func (inv *Invoice) Submit() {
	inv.Status = StatusSubmitted
	inv.Touch()
}

func (inv *Invoice) assign(customerID uuid.UUID, dateIssued time.Time, terms string, items []LineItemInput) {
	inv.CustomerID = customerID
	inv.Terms = strings.TrimSpace(terms)
	if dateIssued.IsZero() {
		inv.DateIssued = time.Time{}
		inv.DueDate = time.Time{}
	} else {
		inv.DateIssued = DateOnly(dateIssued)
		inv.DueDate = DueDate(inv.DateIssued, inv.Terms)
	}

	inv.LineItems = make([]LineItem, 0, len(items))
	for i, in := range items {
		inv.LineItems = append(inv.LineItems, LineItem{
			ID:        uuid.New(),
			InvoiceID: inv.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Total:     in.Total,
			Position:  i,
		})
	}
	inv.RecalculateTotal()
}

// RecalculateTotal sets Total to the sum of the line item totals
func (inv *Invoice) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range inv.LineItems {
		total = total.Add(item.Total)
	}
	inv.Total = total
}

// ProductIDs returns the distinct products referenced by the line items, in line order
func (inv *Invoice) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(inv.LineItems))
	ids := make([]uuid.UUID, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Validate checks the invoice and all of its line items, reporting every violation
func (inv *Invoice) Validate() shared.ValidationResult {
	var r shared.ValidationResult
	if inv.CustomerID == uuid.Nil {
		r.Add("customer_id", "is required")
	}
	if inv.DateIssued.IsZero() {
		r.Add("date_issued", "is required")
	}
	r.RequireText("invoice_terms", inv.Terms)
	if inv.DueDate.IsZero() {
		r.Add("invoice_due_date", "is required")
	}
	if !inv.Status.IsValid() {
		r.Add("invoice_status", fmt.Sprintf("must be one of %s, %s", StatusDraft, StatusSubmitted))
	}
	if inv.Total.IsNegative() {
		r.Add("invoice_total", "must be greater than or equal to 0")
	}
	for i, item := range inv.LineItems {
		r.Merge(fmt.Sprintf("line_items[%d]", i), item.Validate())
	}
	return r
}
