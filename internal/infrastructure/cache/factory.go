package cache

import (
	"fmt"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory picks the idempotency backend for the server:
// Redis when it is enabled and answers a ping, memory otherwise.
type IdempotencyStoreFactory struct {
	redis    config.RedisConfig
	logger   *zap.Logger
	fallback bool
}

// IdempotencyStoreFactoryOption configures an IdempotencyStoreFactory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store instead of failing. Enabled by default.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.fallback = allow
	}
}

// NewIdempotencyStoreFactory creates a factory for cfg
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{redis: cfg, logger: zap.NewNop(), fallback: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore builds the configured store. An in-memory store only
// deduplicates retries that reach the same server instance.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if !f.redis.Enabled {
		f.logger.Info("Redis disabled, idempotency keys kept in memory")
		return NewInMemoryIdempotencyStore(), nil
	}

	addr := f.redis.Addr()
	store, err := NewRedisIdempotencyStore(RedisConfig{Addr: addr, Password: f.redis.Password, DB: f.redis.DB})
	switch {
	case err == nil:
		f.logger.Info("Idempotency keys stored in Redis", zap.String("addr", addr))
		return store, nil
	case !f.fallback:
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unreachable, idempotency keys kept in memory", zap.String("addr", addr), zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
