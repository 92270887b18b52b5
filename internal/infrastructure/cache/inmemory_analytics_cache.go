package cache

import (
	"context"
	"sync"
	"time"

	"github.com/studiobook/backend/internal/domain/shared"
)

// entry is a cached payload with expiration
type entry struct {
	payload    []byte
	merchantID string
	expiresAt  time.Time
}

// InMemoryAnalyticsCache implements AnalyticsCache using an in-memory map.
// Suitable for single-instance deployments and testing; entries are not
// shared across processes, so a multi-instance deployment behind one store
// should use the Redis cache instead.
type InMemoryAnalyticsCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	byMerchant map[string]map[string]struct{}
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryAnalyticsCache creates the cache and starts a background
// goroutine that evicts expired entries.
func NewInMemoryAnalyticsCache() *InMemoryAnalyticsCache {
	c := &InMemoryAnalyticsCache{
		entries:    make(map[string]entry),
		byMerchant: make(map[string]map[string]struct{}),
		stopChan:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached payload and whether the key was present and fresh.
func (c *InMemoryAnalyticsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Set stores a payload under key and indexes it by merchant for invalidation.
func (c *InMemoryAnalyticsCache) Set(ctx context.Context, merchantID, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		payload:    payload,
		merchantID: merchantID,
		expiresAt:  time.Now().Add(ttl),
	}
	keys := c.byMerchant[merchantID]
	if keys == nil {
		keys = make(map[string]struct{})
		c.byMerchant[merchantID] = keys
	}
	keys[key] = struct{}{}
	return nil
}

// InvalidateMerchant drops every entry stored for the merchant.
func (c *InMemoryAnalyticsCache) InvalidateMerchant(ctx context.Context, merchantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.byMerchant[merchantID] {
		delete(c.entries, key)
	}
	delete(c.byMerchant, merchantID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryAnalyticsCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryAnalyticsCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryAnalyticsCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			if keys := c.byMerchant[e.merchantID]; keys != nil {
				delete(keys, key)
				if len(keys) == 0 {
					delete(c.byMerchant, e.merchantID)
				}
			}
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryAnalyticsCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryAnalyticsCache implements AnalyticsCache
var _ shared.AnalyticsCache = (*InMemoryAnalyticsCache)(nil)
