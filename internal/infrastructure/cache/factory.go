package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/studiobook/backend/internal/domain/shared"
	"github.com/studiobook/backend/internal/infrastructure/config"
)

// AnalyticsCacheFactory creates analytics caches based on configuration
type AnalyticsCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// AnalyticsCacheFactoryOption is a functional option for configuring the factory
type AnalyticsCacheFactoryOption func(*AnalyticsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) AnalyticsCacheFactoryOption {
	return func(f *AnalyticsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) AnalyticsCacheFactoryOption {
	return func(f *AnalyticsCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewAnalyticsCacheFactory creates a new factory
func NewAnalyticsCacheFactory(cfg config.RedisConfig, opts ...AnalyticsCacheFactoryOption) *AnalyticsCacheFactory {
	f := &AnalyticsCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed analytics cache
func (f *AnalyticsCacheFactory) CreateRedisCache() (shared.AnalyticsCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	cache, err := NewRedisAnalyticsCache(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis analytics cache: %w", err)
	}

	return cache, nil
}

// CreateInMemoryCache creates an in-memory analytics cache.
// Suitable for single-instance deployments and testing.
func (f *AnalyticsCacheFactory) CreateInMemoryCache() shared.AnalyticsCache {
	return NewInMemoryAnalyticsCache()
}

// CreateCache tries Redis first and falls back to the in-memory cache when
// Redis is unavailable and fallback is allowed.
func (f *AnalyticsCacheFactory) CreateCache() (shared.AnalyticsCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis analytics cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for analytics cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory analytics cache. "+
		"Cached responses will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
