package telemetry

import (
	"context"
	"fmt"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider ships zap records to the collector through the otelzap bridge.
type LoggerProvider struct {
	sdk   *sdklog.LoggerProvider
	log   *zap.Logger
	scope string
}

// NewLoggerProvider batches log records to the OTLP collector when LogsEnabled is set.
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{log: log, scope: cfg.ServiceName}
	if !cfg.LogsEnabled {
		log.Info("OTLP log export disabled")
		return lp, nil
	}

	exporter, err := otlploggrpc.New(ctx, collectorOptions(cfg, otlploggrpc.WithEndpoint, otlploggrpc.WithInsecure)...)
	if err != nil {
		return nil, fmt.Errorf("create log exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	lp.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.sdk)

	log.Info("OTLP log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return lp, nil
}

// NewLoggerProviderWithProcessor wires a provider straight to processor.
func NewLoggerProviderWithProcessor(processor sdklog.Processor, scope string) *LoggerProvider {
	return &LoggerProvider{
		sdk:   sdklog.NewLoggerProvider(sdklog.WithProcessor(processor)),
		log:   zap.NewNop(),
		scope: scope,
	}
}

// Core returns a zap core forwarding entries at or above level, or a nop core
// when export is off. Tee it with the console core.
func (lp *LoggerProvider) Core(level zapcore.Level) zapcore.Core {
	if lp.sdk == nil {
		return zapcore.NewNopCore()
	}
	return &minLevelCore{
		Core: otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk)),
		min:  level,
	}
}

func (lp *LoggerProvider) IsEnabled() bool { return lp.sdk != nil }

// ForceFlush exports buffered records without stopping the provider.
func (lp *LoggerProvider) ForceFlush(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return lp.sdk.ForceFlush(ctx)
}

func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return stopSignal(ctx, "logs", lp.log, lp.sdk.Shutdown)
}

// minLevelCore gates the otelzap core, which accepts every level on its own.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if entry.Level < c.min {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
