package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// InvoiceMetrics implements invoicing.MetricsRecorder on OpenTelemetry instruments.
type InvoiceMetrics struct {
	operations metric.Int64Counter
	amount     metric.Float64Histogram
	lineItems  metric.Float64Histogram
}

func NewInvoiceMetrics(meter metric.Meter) (*InvoiceMetrics, error) {
	in := NewInstruments(meter)
	m := &InvoiceMetrics{
		operations: in.Counter("invoice_operations_total", "Invoice writes by operation", "{invoice}"),
		amount:     in.Histogram("invoice_total_amount", "Invoice totals after a write", "{currency}", AmountBuckets...),
		lineItems:  in.Histogram("invoice_line_items", "Line items per written invoice", "{item}", LineItemBuckets...),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *InvoiceMetrics) RecordInvoiceCreated(ctx context.Context, total decimal.Decimal, lineItems int) {
	m.recordWrite(ctx, "create", total, lineItems)
}

func (m *InvoiceMetrics) RecordInvoiceReplaced(ctx context.Context, total decimal.Decimal, lineItems int) {
	m.recordWrite(ctx, "replace", total, lineItems)
}

// RecordInvoiceDeleted counts the delete only; a removed invoice has no amount.
func (m *InvoiceMetrics) RecordInvoiceDeleted(ctx context.Context) {
	m.operations.Add(ctx, 1, metric.WithAttributes(AttrInvoiceOperation.String("delete")))
}

func (m *InvoiceMetrics) recordWrite(ctx context.Context, op string, total decimal.Decimal, lineItems int) {
	attrs := metric.WithAttributes(AttrInvoiceOperation.String(op))
	m.operations.Add(ctx, 1, attrs)
	m.amount.Record(ctx, total.InexactFloat64(), attrs)
	m.lineItems.Record(ctx, float64(lineItems), attrs)
}
