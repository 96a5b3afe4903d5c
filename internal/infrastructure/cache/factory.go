package cache

import (
	"fmt"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the redis backed coordination primitives, falling back to
// in-process implementations when redis is not configured
type Factory struct {
	redisConfig           config.RedisConfig
	lockConfig            config.StockLockConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether in-memory implementations may be
// used when redis is missing or unreachable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient injects an already connected client
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, lockCfg config.StockLockConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		lockConfig:            lockCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns the shared redis client, connecting on first use.
// Returns nil without error when redis is not configured and fallback is allowed.
func (f *Factory) Client() (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if f.redisConfig.Host == "" {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis is required but redis.host is empty")
		}
		return nil, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory coordination. "+
			"Stock locks and idempotency keys will not be shared between instances.",
			zap.Error(err),
		)
		return nil, nil
	}
	f.client = client
	return client, nil
}

// CreateIdempotencyStore returns a redis store or the in-memory fallback
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryIdempotencyStore(), nil
	}
	f.logger.Info("using Redis idempotency store")
	return NewRedisIdempotencyStore(client, ""), nil
}

// CreateStockLocker returns a redis locker or the in-process fallback
func (f *Factory) CreateStockLocker() (inventory.StockLocker, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryStockLocker(f.lockConfig), nil
	}
	f.logger.Info("using Redis stock locker")
	return NewRedisStockLocker(client, f.lockConfig, f.logger), nil
}

// Close closes the shared client if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
