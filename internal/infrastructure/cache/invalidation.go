package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studiobook/backend/internal/domain/shared"
)

const (
	defaultCloseTimeout = 5 * time.Second

	// DefaultInvalidationChannel is the Pub/Sub channel the transaction
	// ingestion path publishes to when a merchant's history changes.
	DefaultInvalidationChannel = "analytics:invalidate"
)

// RedisCacheInvalidator implements CacheInvalidator using Redis Pub/Sub, so
// every instance holding a local analytics cache learns about transaction
// writes made through any other instance.
type RedisCacheInvalidator struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisCacheInvalidatorOption is a functional option for configuring the invalidator
type RedisCacheInvalidatorOption func(*RedisCacheInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisCacheInvalidatorOption {
	return func(i *RedisCacheInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisCacheInvalidatorOption {
	return func(i *RedisCacheInvalidator) {
		i.logger = logger
	}
}

// NewRedisCacheInvalidator creates a new Redis Pub/Sub cache invalidator
func NewRedisCacheInvalidator(cfg RedisConfig, opts ...RedisCacheInvalidatorOption) (*RedisCacheInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	invalidator := &RedisCacheInvalidator{
		client:     client,
		ownsClient: true,
		channel:    DefaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator, nil
}

// NewRedisCacheInvalidatorWithClient creates an invalidator with an existing
// Redis client. The caller retains ownership of the client.
func NewRedisCacheInvalidatorWithClient(client *redis.Client, opts ...RedisCacheInvalidatorOption) *RedisCacheInvalidator {
	invalidator := &RedisCacheInvalidator{
		client:     client,
		ownsClient: false,
		channel:    DefaultInvalidationChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Publish sends an invalidation notification to all subscribers
func (i *RedisCacheInvalidator) Publish(ctx context.Context, msg shared.CacheInvalidation) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish cache invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}

	i.logger.Debug("Published cache invalidation",
		zap.String("merchant_id", msg.MerchantID),
		zap.String("channel", i.channel))

	return nil
}

// Subscribe starts listening for invalidation notifications. The callback is
// invoked for each received message. Blocks; call in a goroutine.
func (i *RedisCacheInvalidator) Subscribe(ctx context.Context, callback func(msg shared.CacheInvalidation)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	i.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancelFn = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to cache invalidation channel",
		zap.String("channel", i.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Cache invalidation subscription stopped")
			i.mu.Lock()
			i.isRunning = false
			i.mu.Unlock()
			i.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Cache invalidation channel closed")
				i.mu.Lock()
				i.isRunning = false
				i.mu.Unlock()
				i.markDone()
				return nil
			}

			var invalidation shared.CacheInvalidation
			if err := json.Unmarshal([]byte(msg.Payload), &invalidation); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			// Callback runs on its own goroutine so a slow handler never
			// stalls the subscription.
			go func(m shared.CacheInvalidation) {
				defer func() {
					if r := recover(); r != nil {
						i.logger.Error("Panic in invalidation callback",
							zap.Any("panic", r))
					}
				}()
				callback(m)
			}(invalidation)
		}
	}
}

func (i *RedisCacheInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close releases any resources held by the invalidator
func (i *RedisCacheInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for subscription to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (i *RedisCacheInvalidator) GetClient() *redis.Client {
	return i.client
}

// Ensure RedisCacheInvalidator implements CacheInvalidator
var _ shared.CacheInvalidator = (*RedisCacheInvalidator)(nil)
