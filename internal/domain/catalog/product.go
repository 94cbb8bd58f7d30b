package catalog

import (
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product.
// Description is unique across the catalog.
type Product struct {
	shared.BaseAggregateRoot
	Description string
	Price       decimal.Decimal
}

// NewProduct creates a new product, rejecting it when any field is invalid
func NewProduct(description string, price decimal.Decimal) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       shared.NormalizeText(description),
		Price:             price,
	}
	if err := p.Validate().Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Replace overwrites description and price. The product is left untouched when validation fails.
func (p *Product) Replace(description string, price decimal.Decimal) error {
	candidate := *p
	candidate.Description = shared.NormalizeText(description)
	candidate.Price = price
	if err := candidate.Validate().Err(); err != nil {
		return err
	}
	*p = candidate
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Validate checks the pure field invariants. Description uniqueness needs the
// repository and is checked by the application service.
func (p *Product) Validate() shared.ValidationResult {
	var r shared.ValidationResult
	r.RequireText("product_description", p.Description)
	if p.Price.IsNegative() {
		r.Add("product_price", "must be greater than or equal to 0")
	} else {
		r.RequireScale("product_price", p.Price)
	}
	return r
}
