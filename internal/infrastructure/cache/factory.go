package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/config"
)

const storeKeyPrefix = "hellcat:cache:"

// Backends bundles the cache and idempotency store chosen by configuration
type Backends struct {
	Store       Store
	Idempotency shared.IdempotencyStore
	client      *redis.Client
}

// Close releases the idempotency store and the Redis client, if any
func (b *Backends) Close() error {
	var firstErr error
	if b.Idempotency != nil {
		firstErr = b.Idempotency.Close()
	}
	if b.client != nil {
		if err := b.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ping checks the Redis connection. In-memory backends always report healthy.
func (b *Backends) Ping(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Ping(ctx).Err()
}

// Factory creates cache backends based on configuration
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	sweepInterval         time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		sweepInterval:         time.Minute,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns Redis backends when Redis is enabled and reachable,
// in-memory backends otherwise
func (f *Factory) Create(ctx context.Context) (*Backends, error) {
	if !f.cfg.Enabled {
		f.logger.Info("Using in-memory cache")
		return f.inMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.cfg.Addr,
		Password: f.cfg.Password,
		DB:       f.cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory cache",
			zap.String("addr", f.cfg.Addr),
			zap.Error(err),
		)
		return f.inMemory(), nil
	}

	f.logger.Info("Using Redis cache", zap.String("addr", f.cfg.Addr), zap.Int("db", f.cfg.DB))
	return &Backends{
		Store:       NewRedisStore(client, storeKeyPrefix),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		client:      client,
	}, nil
}

func (f *Factory) inMemory() *Backends {
	return &Backends{
		Store:       NewMemoryStore(),
		Idempotency: NewInMemoryIdempotencyStore(f.sweepInterval),
	}
}
