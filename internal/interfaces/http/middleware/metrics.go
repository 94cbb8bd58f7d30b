package middleware

import (
	"context"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
	Logger        *zap.Logger
}

type httpMetrics struct {
	requests     metric.Int64Counter
	latency      metric.Float64Histogram
	requestSize  metric.Float64Histogram
	responseSize metric.Float64Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	in := telemetry.NewInstruments(meter)
	m := &httpMetrics{
		requests:     in.Counter("http_server_request_total", "Completed HTTP requests", "{request}"),
		latency:      in.Histogram("http_server_request_duration_seconds", "Time to serve a request", "s", telemetry.LatencyBuckets...),
		requestSize:  in.Histogram("http_server_request_size_bytes", "Request body size", "By", telemetry.BodySizeBuckets...),
		responseSize: in.Histogram("http_server_response_size_bytes", "Response body size, PDFs included", "By", telemetry.BodySizeBuckets...),
		inFlight:     in.Gauge("http_server_active_requests", "Requests currently being served", "{request}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics counts requests and records latency and body sizes per route
// pattern, e.g. "/api/v1/invoices/:id". Unmatched paths report as "unknown".
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	m, err := newHTTPMetrics(cfg.MeterProvider.Meter("http.server"))
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		received := c.Request.ContentLength

		m.inFlight.Add(ctx, 1)
		defer m.inFlight.Add(ctx, -1)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		recordHTTPMetrics(ctx, m, c.Request.Method, route, c.Writer.Status(), time.Since(start), received, c.Writer.Size())
	}
}

func passThrough(c *gin.Context) { c.Next() }

func recordHTTPMetrics(ctx context.Context, m *httpMetrics, method, route string, status int, elapsed time.Duration, received int64, sent int) {
	m.requests.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatusCode.Int(status),
	))

	attrs := metric.WithAttributes(telemetry.AttrHTTPMethod.String(method), telemetry.AttrHTTPRoute.String(route))
	m.latency.Record(ctx, elapsed.Seconds(), attrs)
	if received > 0 {
		m.requestSize.Record(ctx, float64(received), attrs)
	}
	if sent > 0 {
		m.responseSize.Record(ctx, float64(sent), attrs)
	}
}
