package telemetry

import (
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	queryStartKey             = "telemetry:query_start"
)

// DBTracingOption customises RegisterDBTracing
type DBTracingOption func(*dbTracing)

// WithDBTracerProvider overrides the global tracer provider
func WithDBTracerProvider(tp trace.TracerProvider) DBTracingOption {
	return func(t *dbTracing) {
		t.otelOpts = append(t.otelOpts, otelgorm.WithTracerProvider(tp))
	}
}

type dbTracing struct {
	otelOpts  []otelgorm.Option
	threshold time.Duration
	logger    *zap.Logger
}

// RegisterDBTracing installs the otelgorm plugin on db and logs queries
// slower than cfg.DBSlowQueryThresh. It is a no-op when DB tracing is disabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger, opts ...DBTracingOption) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	t := &dbTracing{
		otelOpts:  []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())},
		threshold: cfg.DBSlowQueryThresh,
		logger:    logger,
	}
	if t.threshold <= 0 {
		t.threshold = defaultSlowQueryThreshold
	}
	if !cfg.DBLogFullSQL {
		t.otelOpts = append(t.otelOpts, otelgorm.WithoutQueryVariables())
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := db.Use(otelgorm.NewPlugin(t.otelOpts...)); err != nil {
		return err
	}
	if err := t.registerSlowQueryCallbacks(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", t.threshold),
	)
	return nil
}

func (t *dbTracing) registerSlowQueryCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", t.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("telemetry:after_create", t.after("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", t.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("telemetry:after_query", t.after("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", t.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("telemetry:after_update", t.after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", t.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("telemetry:after_delete", t.after("delete")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", t.before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", t.after("raw"))
}

func (t *dbTracing) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (t *dbTracing) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed < t.threshold {
			return
		}

		span := trace.SpanFromContext(db.Statement.Context)
		span.SetAttributes(AttrSlowQuery.Bool(true))
		t.logger.Warn("Slow query",
			zap.String("operation", operation),
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
	}
}
