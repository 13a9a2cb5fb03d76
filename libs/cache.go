package libs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-delivery/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a JSON cache over redis. A nil *RedisCache, or one built
// without a client, behaves as a permanently empty cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the cached value at key into dst. found is false on a miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (found bool, err error) {
	if !c.enabled() {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value any) error {
	return c.setJSON(ctx, key, value, c.ttl)
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// DeletePattern drops every key matching a glob pattern.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// IdempotencyStore remembers which order an (user, Idempotency-Key) pair produced
// so that replays can be answered without touching the database.
type IdempotencyStore struct {
	cache *RedisCache
	ttl   time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cache: NewRedisCache(client, ttl), ttl: ttl}
}

func idempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("idempotency:order:%d:%s", userID, key)
}

// orderIndexKey points from an order id back to its idempotency entry.
func orderIndexKey(orderID int64) string {
	return fmt.Sprintf("idempotency:order-id:%d", orderID)
}

func (s *IdempotencyStore) LookupOrder(ctx context.Context, userID int64, key string) (*models.Order, bool, error) {
	var order models.Order
	found, err := s.cache.GetJSON(ctx, idempotencyKey(userID, key), &order)
	if err != nil || !found {
		return nil, false, err
	}
	order.IdempotencyKey = key
	return &order, true, nil
}

func (s *IdempotencyStore) RememberOrder(ctx context.Context, key string, order *models.Order) error {
	stored := *order
	stored.Items = nil

	entry := idempotencyKey(order.UserID, key)
	if err := s.cache.setJSON(ctx, entry, stored, s.ttl); err != nil {
		return err
	}
	return s.cache.setJSON(ctx, orderIndexKey(order.ID), entry, s.ttl)
}

// ForgetOrder drops the replay entry of a deleted order.
func (s *IdempotencyStore) ForgetOrder(ctx context.Context, orderID int64) error {
	index := orderIndexKey(orderID)

	var entry string
	found, err := s.cache.GetJSON(ctx, index, &entry)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return s.cache.Delete(ctx, entry, index)
}
