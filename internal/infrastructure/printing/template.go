package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	invoicingapp "github.com/IndraniBorra/InvoiceManagementStore/internal/application/invoicing"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice.html
var templateFS embed.FS

const invoiceTemplatePath = "templates/invoice.html"

// InvoiceTemplate renders invoice documents to printable HTML
type InvoiceTemplate struct {
	tmpl        *template.Template
	formatter   *Formatter
	companyName string
}

// NewInvoiceTemplate parses the embedded invoice layout
func NewInvoiceTemplate(companyName, locale string) (*InvoiceTemplate, error) {
	tmpl, err := template.New("invoice.html").
		Funcs(template.FuncMap{
			"add": func(a, b int) int { return a + b },
		}).
		ParseFS(templateFS, invoiceTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceTemplate{
		tmpl:        tmpl,
		formatter:   NewFormatter(locale),
		companyName: companyName,
	}, nil
}

type invoiceView struct {
	Locale          string
	CompanyName     string
	InvoiceID       string
	Status          string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerEmail   string
	DateIssued      string
	DueDate         string
	Terms           string
	Total           string
	Lines           []lineView
}

type lineView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

// Render returns the HTML for doc
func (t *InvoiceTemplate) Render(doc *invoicingapp.InvoiceDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice document is nil", nil)
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, t.view(doc)); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

func (t *InvoiceTemplate) view(doc *invoicingapp.InvoiceDocument) invoiceView {
	f := t.formatter
	v := invoiceView{
		Locale:          f.Locale().String(),
		CompanyName:     t.companyName,
		InvoiceID:       doc.InvoiceID.String(),
		Status:          f.Title(string(doc.Status)),
		CustomerName:    doc.CustomerName,
		CustomerAddress: doc.CustomerAddress,
		CustomerPhone:   doc.CustomerPhone,
		CustomerEmail:   doc.CustomerEmail,
		DateIssued:      f.Date(doc.DateIssued),
		DueDate:         f.Date(doc.DueDate),
		Terms:           doc.Terms,
		Total:           f.Money(doc.Total),
		Lines:           make([]lineView, len(doc.Lines)),
	}
	for i, line := range doc.Lines {
		v.Lines[i] = lineView{
			Description: line.Description,
			Quantity:    f.Quantity(line.Quantity),
			UnitPrice:   f.Money(unitPrice(line.Total, line.Quantity)),
			Total:       f.Money(line.Total),
		}
	}
	return v
}

func unitPrice(total decimal.Decimal, quantity int) decimal.Decimal {
	if quantity == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(quantity)), 2)
}
