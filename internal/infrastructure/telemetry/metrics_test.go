package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	defer mp.Shutdown(context.Background())

	in := NewInstruments(mp.Meter("test"))
	in.Counter("requests_total", "", "{request}").Add(context.Background(), 3)
	in.Histogram("latency_seconds", "", "s", LatencyBuckets...).Record(context.Background(), 0.2)
	in.Gauge("in_flight", "", "{request}").Add(context.Background(), 1)
	require.NoError(t, in.Err())

	metrics := collect(t, reader)
	assert.Contains(t, metrics, "requests_total")
	assert.Contains(t, metrics, "latency_seconds")
	assert.Contains(t, metrics, "in_flight")
}

func TestInstruments_InvalidNameFallsBackToNoop(t *testing.T) {
	mp := NewMeterProviderWithReader(sdkmetric.NewManualReader(), zap.NewNop())
	in := NewInstruments(mp.Meter("test"))

	c := in.Counter("1-invalid", "", "")
	require.NotNil(t, c)
	c.Add(context.Background(), 1, metric.WithAttributes(AttrInvoiceOperation.String("create")))

	err := in.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counter 1-invalid")
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp := &MeterProvider{log: zap.NewNop()}

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
