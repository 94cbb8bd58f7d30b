// Package printing renders invoices to PDF.
//
// InvoiceTemplate turns an invoice document into HTML using html/template and
// locale-aware number formatting; ChromedpRenderer prints that HTML to PDF in
// headless Chrome over the DevTools protocol.
//
//	tmpl, err := printing.NewInvoiceTemplate("Acme Supplies", "en-US")
//	renderer, err := printing.NewChromedpRenderer(cfg.Document, tmpl, log)
//	defer renderer.Close()
//	pdf, err := renderer.RenderInvoice(ctx, doc)
package printing
