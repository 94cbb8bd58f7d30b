package invoicing

import "time"

// Payment terms codes recognized by DueDate
const (
	TermsDueOnReceipt   = "Due on Receipt"
	TermsNet15          = "Net 15"
	TermsNet30          = "Net 30"
	TermsNet45          = "Net 45"
	TermsNet60          = "Net 60"
	TermsEndOfMonth     = "Due end of the month"
	TermsEndOfNextMonth = "Due end of next month"
)

var termOffsetDays = map[string]int{
	TermsDueOnReceipt: 0,
	TermsNet15:        15,
	TermsNet30:        30,
	TermsNet45:        45,
	TermsNet60:        60,
}

// KnownTerms lists the recognized terms codes in display order
func KnownTerms() []string {
	return []string{
		TermsDueOnReceipt,
		TermsNet15,
		TermsNet30,
		TermsNet45,
		TermsNet60,
		TermsEndOfMonth,
		TermsEndOfNextMonth,
	}
}

// IsKnownTerms reports whether terms is one of KnownTerms
func IsKnownTerms(terms string) bool {
	if _, ok := termOffsetDays[terms]; ok {
		return true
	}
	return terms == TermsEndOfMonth || terms == TermsEndOfNextMonth
}

// DueDate computes the payment due date for an invoice issued on issued.
// Unrecognized terms fall back to a zero-day offset.
func DueDate(issued time.Time, terms string) time.Time {
	issued = DateOnly(issued)
	switch terms {
	case TermsEndOfMonth:
		return endOfMonth(issued, 1)
	case TermsEndOfNextMonth:
		return endOfMonth(issued, 2)
	}
	return issued.AddDate(0, 0, termOffsetDays[terms])
}

// endOfMonth returns the last day of the month steps-1 months after d's month.
// Adding 32 days to the first of a month always lands in the next month.
func endOfMonth(d time.Time, steps int) time.Time {
	cursor := firstOfMonth(d)
	for i := 0; i < steps; i++ {
		cursor = firstOfMonth(cursor.AddDate(0, 0, 32))
	}
	return cursor.AddDate(0, 0, -1)
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
