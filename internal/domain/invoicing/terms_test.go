package invoicing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate_OffsetTerms(t *testing.T) {
	issued := date(2024, 3, 10)
	tests := []struct {
		terms string
		days  int
	}{
		{TermsDueOnReceipt, 0},
		{TermsNet15, 15},
		{TermsNet30, 30},
		{TermsNet45, 45},
		{TermsNet60, 60},
	}
	for _, tt := range tests {
		t.Run(tt.terms, func(t *testing.T) {
			assert.Equal(t, issued.AddDate(0, 0, tt.days), DueDate(issued, tt.terms))
		})
	}
}

func TestDueDate_EndOfMonth(t *testing.T) {
	tests := []struct {
		name   string
		issued time.Time
		terms  string
		want   time.Time
	}{
		{"january", date(2024, 1, 15), TermsEndOfMonth, date(2024, 1, 31)},
		{"leap february", date(2024, 2, 15), TermsEndOfMonth, date(2024, 2, 29)},
		{"plain february", date(2023, 2, 1), TermsEndOfMonth, date(2023, 2, 28)},
		{"thirty day month", date(2024, 4, 30), TermsEndOfMonth, date(2024, 4, 30)},
		{"december", date(2024, 12, 31), TermsEndOfMonth, date(2024, 12, 31)},
		{"next month into leap february", date(2024, 1, 15), TermsEndOfNextMonth, date(2024, 2, 29)},
		{"next month from january 31", date(2023, 1, 31), TermsEndOfNextMonth, date(2023, 2, 28)},
		{"next month across year end", date(2024, 12, 5), TermsEndOfNextMonth, date(2025, 1, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueDate(tt.issued, tt.terms))
		})
	}
}

func TestDueDate_UnknownTermsFallBackToIssueDate(t *testing.T) {
	issued := date(2024, 6, 1)

	assert.Equal(t, issued, DueDate(issued, "Net 90"))
	assert.Equal(t, issued, DueDate(issued, ""))
	assert.Equal(t, issued, DueDate(issued, "net 30"))
}

func TestDueDate_IgnoresTimeOfDay(t *testing.T) {
	issued := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, date(2024, 1, 30), DueDate(issued, TermsNet15))
}

func TestIsKnownTerms(t *testing.T) {
	for _, terms := range KnownTerms() {
		assert.True(t, IsKnownTerms(terms), terms)
	}
	assert.False(t, IsKnownTerms("Custom"))
}
