package shared

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places stored for money amounts
const AmountScale = 4

// ValidationResult accumulates every field violation found while checking an entity.
// The zero value is ready to use.
type ValidationResult struct {
	violations []FieldViolation
}

// Add records a violation for field
func (r *ValidationResult) Add(field, message string) {
	r.violations = append(r.violations, FieldViolation{Field: field, Message: message})
}

// Merge appends the violations of other, prefixing each field with prefix when set.
func (r *ValidationResult) Merge(prefix string, other ValidationResult) {
	for _, v := range other.violations {
		field := v.Field
		if prefix != "" {
			field = prefix + "." + field
		}
		r.violations = append(r.violations, FieldViolation{Field: field, Message: v.Message})
	}
}

// Valid reports whether no violations were recorded
func (r ValidationResult) Valid() bool {
	return len(r.violations) == 0
}

// Violations returns a copy of the recorded violations
func (r ValidationResult) Violations() []FieldViolation {
	out := make([]FieldViolation, len(r.violations))
	copy(out, r.violations)
	return out
}

// Err returns nil when valid, otherwise a VALIDATION_FAILED domain error listing every violation.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	fields := make([]string, 0, len(r.violations))
	for _, v := range r.violations {
		fields = append(fields, v.Field)
	}
	return &DomainError{
		Code:    CodeValidationFailed,
		Message: "Validation failed: " + strings.Join(fields, ", "),
		Details: r.Violations(),
	}
}

// RequireText records a violation when value is blank after trimming
func (r *ValidationResult) RequireText(field, value string) {
	if strings.TrimSpace(value) == "" {
		r.Add(field, "is required")
	}
}

// RequireScale records a violation when amount has more than AmountScale
// significant decimal places. Trailing zeros are allowed.
func (r *ValidationResult) RequireScale(field string, amount decimal.Decimal) {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		r.Add(field, fmt.Sprintf("must have at most %d decimal places", AmountScale))
	}
}
