package models

import (
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index"`
	DateIssued time.Time          `gorm:"type:date;not null"`
	Terms      string             `gorm:"type:varchar(50);not null"`
	DueDate    time.Time          `gorm:"type:date;not null"`
	Status     invoicing.Status   `gorm:"type:varchar(20);not null;default:'draft'"`
	Total      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	LineItems  []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice. Line items
// keep the order of m.LineItems.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	items := make([]invoicing.LineItem, len(m.LineItems))
	for i := range m.LineItems {
		items[i] = m.LineItems[i].ToDomain()
	}
	return &invoicing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		DateIssued:        invoicing.DateOnly(m.DateIssued),
		Terms:             m.Terms,
		DueDate:           invoicing.DateOnly(m.DueDate),
		Status:            m.Status,
		Total:             m.Total,
		LineItems:         items,
	}
}

// FromDomain populates the persistence model from a domain Invoice,
// including its line items.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.CustomerID = inv.CustomerID
	m.DateIssued = inv.DateIssued
	m.Terms = inv.Terms
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.Total = inv.Total
	m.LineItems = make([]InvoiceItemModel, len(inv.LineItems))
	for i := range inv.LineItems {
		m.LineItems[i] = *InvoiceItemModelFromDomain(inv.ID, &inv.LineItems[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for an invoice line item.
type InvoiceItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_items_invoice_position,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position  int             `gorm:"not null;default:0;index:idx_invoice_items_invoice_position,priority:2"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *InvoiceItemModel) ToDomain() invoicing.LineItem {
	return invoicing.LineItem{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Total:     m.Total,
		Position:  m.Position,
	}
}

// InvoiceItemModelFromDomain creates a persistence model for item owned by invoiceID.
func InvoiceItemModelFromDomain(invoiceID uuid.UUID, item *invoicing.LineItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:        item.ID,
		InvoiceID: invoiceID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Total:     item.Total,
		Position:  item.Position,
	}
}

// AllModels lists every model in dependency order, for AutoMigrate
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&ProductModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
	}
}
