package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studiobook/backend/internal/domain/shared"
)

// RedisAnalyticsCache implements AnalyticsCache on Redis. Suitable for
// distributed deployments where multiple instances serve the same merchants.
// Each merchant's cache keys are tracked in a Redis set so invalidation can
// drop them all in one pass.
type RedisAnalyticsCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAnalyticsCache creates a Redis-backed analytics cache
func NewRedisAnalyticsCache(cfg RedisConfig) (*RedisAnalyticsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAnalyticsCache{
		client:    client,
		keyPrefix: "analytics:response:",
	}, nil
}

// NewRedisAnalyticsCacheWithClient creates a cache with an existing Redis
// client. The caller retains ownership of the client.
func NewRedisAnalyticsCacheWithClient(client *redis.Client, keyPrefix string) *RedisAnalyticsCache {
	if keyPrefix == "" {
		keyPrefix = "analytics:response:"
	}
	return &RedisAnalyticsCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisAnalyticsCache) indexKey(merchantID string) string {
	return c.keyPrefix + "merchant:" + merchantID
}

// Get returns the cached payload and whether the key was present.
func (c *RedisAnalyticsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}
	return payload, true, nil
}

// Set stores a payload under key and adds the key to the merchant's index set.
func (c *RedisAnalyticsCache) Set(ctx context.Context, merchantID, key string, payload []byte, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.keyPrefix+key, payload, ttl)
	pipe.SAdd(ctx, c.indexKey(merchantID), key)
	pipe.Expire(ctx, c.indexKey(merchantID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// InvalidateMerchant removes every cached response recorded for the merchant.
func (c *RedisAnalyticsCache) InvalidateMerchant(ctx context.Context, merchantID string) error {
	keys, err := c.client.SMembers(ctx, c.indexKey(merchantID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list merchant cache keys: %w", err)
	}

	prefixed := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		prefixed = append(prefixed, c.keyPrefix+key)
	}
	prefixed = append(prefixed, c.indexKey(merchantID))
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate merchant cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisAnalyticsCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisAnalyticsCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisAnalyticsCache implements AnalyticsCache
var _ shared.AnalyticsCache = (*RedisAnalyticsCache)(nil)
