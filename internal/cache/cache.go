// Package cache holds the read-through cache for public order tracking.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// OrderCache stores tracked orders keyed by order number.
// A miss is (nil, nil).
type OrderCache interface {
	Get(ctx context.Context, orderNumber string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Invalidate(ctx context.Context, orderNumber string) error
}

// Nop never stores anything. Used when no redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Order, error) { return nil, nil }
func (Nop) Set(context.Context, *models.Order) error           { return nil }
func (Nop) Invalidate(context.Context, string) error           { return nil }

type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisOrderCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisOrderCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisOrderCache{client: client, ttl: ttl, log: log.Named("order-cache")}
}

// OrderKey is the redis key of one tracked order.
func OrderKey(orderNumber string) string {
	return fmt.Sprintf("order:%s:track", orderNumber)
}

func (c *RedisOrderCache) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	raw, err := c.client.Get(ctx, OrderKey(orderNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tracked order %s: %w", orderNumber, err)
	}

	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		// Unreadable entries are dropped and treated as a miss.
		c.log.Warn("discarding cached order", zap.String("orderNumber", orderNumber), zap.Error(err))
		_ = c.client.Del(ctx, OrderKey(orderNumber)).Err()
		return nil, nil
	}
	return &order, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", order.OrderNumber, err)
	}
	if err := c.client.Set(ctx, OrderKey(order.OrderNumber), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set tracked order %s: %w", order.OrderNumber, err)
	}
	return nil
}

func (c *RedisOrderCache) Invalidate(ctx context.Context, orderNumber string) error {
	if err := c.client.Del(ctx, OrderKey(orderNumber)).Err(); err != nil {
		return fmt.Errorf("invalidate tracked order %s: %w", orderNumber, err)
	}
	return nil
}

// Connect returns a redis-backed cache, or Nop when addr is empty.
// The connection is checked with a PING before it is used.
func Connect(ctx context.Context, addr, password string, ttl time.Duration, log *zap.Logger) (OrderCache, func() error, error) {
	if addr == "" {
		return Nop{}, func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisOrderCache(client, ttl, log), client.Close, nil
}
