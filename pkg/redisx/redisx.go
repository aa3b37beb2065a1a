package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection with a PING.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// CheckoutCache remembers which order an idempotency key produced.
type CheckoutCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCheckoutCache(rdb redis.Cmdable, ttl time.Duration) *CheckoutCache {
	return &CheckoutCache{rdb: rdb, ttl: ttl}
}

func cacheKey(key string) string {
	return "idem:checkout:" + key
}

// Get returns the order ID stored for key. found is false when the key is unknown or expired.
func (c *CheckoutCache) Get(ctx context.Context, key string) (orderID string, found bool, err error) {
	orderID, err = c.rdb.Get(ctx, cacheKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read checkout key: %w", err)
	}
	return orderID, true, nil
}

// Put stores orderID under key unless the key is already taken.
func (c *CheckoutCache) Put(ctx context.Context, key, orderID string) error {
	if err := c.rdb.SetNX(ctx, cacheKey(key), orderID, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout key: %w", err)
	}
	return nil
}
