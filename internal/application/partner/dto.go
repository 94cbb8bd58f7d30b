package partner

import (
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/partner"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRequest carries every customer field for create and full replace.
// Field rules are enforced by partner.Customer.Validate so all violations are reported together.
type CustomerRequest struct {
	Name    string `json:"customer_name"`
	Address string `json:"customer_address"`
	Phone   string `json:"customer_phone"`
	Email   string `json:"customer_email"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"customer_id"`
	Name      string    `json:"customer_name"`
	Address   string    `json:"customer_address"`
	Phone     string    `json:"customer_phone"`
	Email     string    `json:"customer_email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Name  string `form:"customer_name"`
	Skip  int    `form:"skip" binding:"min=0"`
	Limit int    `form:"limit" binding:"min=0,max=1000"`
}

// toFilter maps the request filter onto the repository filter
func (f CustomerListFilter) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = f.Name
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

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
