package shared

import (
	"context"
	"time"
)

// AnalyticsCache stores serialized analytics responses keyed by
// (merchant, window, dimension). Every computed response is a pure projection
// of the transaction log, so entries stay valid until the merchant's
// transactions change; InvalidateMerchant drops all of a merchant's entries
// when that happens. TTLs are a backstop, not the primary freshness
// mechanism.
type AnalyticsCache interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a payload under key, indexed by merchantID for invalidation.
	Set(ctx context.Context, merchantID, key string, payload []byte, ttl time.Duration) error

	// InvalidateMerchant removes every entry stored for the merchant.
	InvalidateMerchant(ctx context.Context, merchantID string) error

	// Close releases any resources held by the cache.
	Close() error
}

// CacheInvalidation is the notification published when a merchant's
// transaction history changes and cached analytics must be dropped.
type CacheInvalidation struct {
	MerchantID string `json:"merchant_id"`
	Timestamp  int64  `json:"timestamp"`
}

// CacheInvalidator fans invalidation notifications out to all instances
// holding an AnalyticsCache.
type CacheInvalidator interface {
	Publish(ctx context.Context, msg CacheInvalidation) error
	Subscribe(ctx context.Context, callback func(msg CacheInvalidation)) error
	Close() error
}
