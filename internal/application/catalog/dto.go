package catalog

import (
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/catalog"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest carries every product field for create and full replace
type ProductRequest struct {
	Description string          `json:"product_description"`
	Price       decimal.Decimal `json:"product_price"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"product_id"`
	Description string          `json:"product_description"`
	Price       decimal.Decimal `json:"product_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search string `form:"search"`
	Skip   int    `form:"skip" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=1000"`
}

func (f ProductListFilter) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.Offset = f.Skip
	filter.Limit = f.Limit
	return filter.Normalize()
}

// DeleteResponse confirms a deletion. AffectedInvoices lists invoices that lost line items.
type DeleteResponse struct {
	Deleted          bool        `json:"deleted"`
	ID               uuid.UUID   `json:"id"`
	Message          string      `json:"message"`
	AffectedInvoices []uuid.UUID `json:"affected_invoices,omitempty"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
