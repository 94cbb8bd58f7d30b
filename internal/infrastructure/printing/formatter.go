package printing

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const dateLayout = "January 2, 2006"

// Formatter formats amounts, dates and labels for one locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter creates a Formatter for a BCP 47 locale. Unparseable or empty
// locales fall back to American English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.AmericanEnglish
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

// Locale returns the resolved language tag
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Money formats d with two fraction digits and locale grouping, e.g. "$1,234.50"
func (f *Formatter) Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	amount := d.Round(2).InexactFloat64()
	return sign + "$" + f.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Quantity formats an integer with locale grouping
func (f *Formatter) Quantity(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Date formats t as a long date, e.g. "January 15, 2024"
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Title title-cases s for the locale, e.g. "submitted" -> "Submitted"
func (f *Formatter) Title(s string) string {
	return f.title.String(s)
}
