package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider owns the metrics pipeline. A nil sdk means metrics are off.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
	log *zap.Logger
}

// NewMeterProvider pushes metrics to the OTLP collector every
// MetricsExportInterval (one minute when unset).
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{log: log}
	if !cfg.MetricsEnabled {
		log.Info("Metrics disabled")
		return mp, nil
	}

	interval := cfg.MetricsExportInterval
	if interval <= 0 {
		interval = time.Minute
	}

	exporter, err := otlpmetricgrpc.New(ctx, collectorOptions(cfg, otlpmetricgrpc.WithEndpoint, otlpmetricgrpc.WithInsecure)...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.sdk)

	log.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval))
	return mp, nil
}

// NewMeterProviderWithReader wires a provider to reader without exporting,
// typically a ManualReader under test.
func NewMeterProviderWithReader(reader sdkmetric.Reader, log *zap.Logger) *MeterProvider {
	return &MeterProvider{sdk: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), log: log}
}

func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.sdk == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool { return mp.sdk != nil }

func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	return stopSignal(ctx, "metrics", mp.log, mp.sdk.Shutdown)
}

// Instruments creates instruments on one meter and remembers every failure,
// so callers check a single error after building a whole set. A failed
// instrument is replaced by a no-op one.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

func (in *Instruments) Counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("counter %s: %w", name, err))
		return noop.Int64Counter{}
	}
	return c
}

func (in *Instruments) Gauge(name, description, unit string) metric.Int64UpDownCounter {
	g, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("up-down counter %s: %w", name, err))
		return noop.Int64UpDownCounter{}
	}
	return g
}

// Histogram creates a float64 histogram; buckets override the SDK defaults.
func (in *Instruments) Histogram(name, description, unit string, buckets ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("histogram %s: %w", name, err))
		return noop.Float64Histogram{}
	}
	return h
}

// Err joins every instrument creation failure.
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

// Attribute keys shared across instruments.
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBState   = attribute.Key("db.pool.state")
	AttrSlowQuery = attribute.Key("db.slow_query")

	AttrInvoiceOperation = attribute.Key("invoice.operation")
)

// Bucket boundaries. Latency in seconds, sizes in bytes, amounts in currency units.
var (
	LatencyBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	BodySizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}
	AmountBuckets   = []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000}
	LineItemBuckets = []float64{1, 2, 5, 10, 20, 50, 100}
)
