package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key format and TTL for the per-order status cache.
const keyOrderStatus = "order_status:%s"

var ttlStatus = 5 * time.Minute

// New creates a Redis client for the given address.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// StatusCache stores the latest order status in Redis. It implements
// order.StatusCache.
type StatusCache struct {
	rdb *redis.Client
}

func NewStatusCache(rdb *redis.Client) *StatusCache {
	return &StatusCache{rdb: rdb}
}

func (c *StatusCache) SetStatus(ctx context.Context, orderID, status string) error {
	key := fmt.Sprintf(keyOrderStatus, orderID)
	return c.rdb.Set(ctx, key, status, ttlStatus).Err()
}
