package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/config"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// StoreFactory picks the idempotency store for the deployment
type StoreFactory struct {
	client        redis.UniversalClient
	sweepInterval time.Duration
	logger        *zap.Logger
}

// StoreFactoryOption configures a StoreFactory
type StoreFactoryOption func(*StoreFactory)

// WithRedis makes the factory build Redis backed stores
func WithRedis(client redis.UniversalClient) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.client = client
	}
}

// WithSweepInterval sets how often in-memory stores drop expired keys
func WithSweepInterval(d time.Duration) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.sweepInterval = d
	}
}

// NewStoreFactory creates a factory. Without WithRedis it builds in-memory stores.
func NewStoreFactory(logger *zap.Logger, opts ...StoreFactoryOption) *StoreFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &StoreFactory{
		sweepInterval: 5 * time.Minute,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Store creates a store whose keys live under the given namespace
func (f *StoreFactory) Store(namespace string) shared.IdempotencyStore {
	if f.client != nil {
		f.logger.Info("Using Redis idempotency store", zap.String("namespace", namespace))
		return NewRedisIdempotencyStore(f.client, DefaultKeyPrefix+namespace+":")
	}
	f.logger.Warn("Using in-memory idempotency store; state is not shared between instances",
		zap.String("namespace", namespace))
	return NewInMemoryIdempotencyStore(f.sweepInterval)
}
