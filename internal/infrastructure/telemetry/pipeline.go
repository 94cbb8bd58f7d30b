package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"go.uber.org/zap"
)

// flushBudget bounds how long a provider may spend exporting on shutdown
const flushBudget = 10 * time.Second

// collectorOptions builds the gRPC exporter options shared by every signal.
// Each OTLP exporter package defines its own Option type, hence the type parameter.
func collectorOptions[O any](cfg config.TelemetryConfig, endpoint func(string) O, insecure func() O) []O {
	opts := []O{endpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, insecure())
	}
	return opts
}

// stopSignal runs shutdown within flushBudget and logs the outcome under signal
func stopSignal(ctx context.Context, signal string, log *zap.Logger, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, flushBudget)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.String("signal", signal), zap.Error(err))
		return fmt.Errorf("shutdown %s provider: %w", signal, err)
	}
	log.Info("Telemetry signal stopped", zap.String("signal", signal))
	return nil
}
