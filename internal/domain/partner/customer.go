package partner

import (
	"regexp"
	"strings"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Customer represents a billable customer.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	Name    string
	Address string
	Phone   string
	Email   string
}

// NewCustomer creates a new customer, rejecting it when any field is invalid
func NewCustomer(name, address, phone, email string) (*Customer, error) {
	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	c.assign(name, address, phone, email)
	if err := c.Validate().Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace overwrites every mutable field. The customer is left untouched when validation fails.
func (c *Customer) Replace(name, address, phone, email string) error {
	candidate := *c
	candidate.assign(name, address, phone, email)
	if err := candidate.Validate().Err(); err != nil {
		return err
	}
	*c = candidate
	c.Touch()
	c.IncrementVersion()
	return nil
}

func (c *Customer) assign(name, address, phone, email string) {
	c.Name = shared.NormalizeText(name)
	c.Address = strings.TrimSpace(address)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
}

// Validate checks every field and reports all violations
func (c *Customer) Validate() shared.ValidationResult {
	var r shared.ValidationResult
	r.RequireText("customer_name", c.Name)
	r.RequireText("customer_address", c.Address)
	if !IsValidPhone(c.Phone) {
		r.Add("customer_phone", "must be exactly 10 digits")
	}
	if c.Email != "" && !IsValidEmail(c.Email) {
		r.Add("customer_email", "must contain '@' and '.'")
	}
	return r
}

// IsValidPhone reports whether phone consists of exactly 10 digits
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidEmail applies the minimal address check used for customers
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
