package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a JSON page cache backed by redis
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache dials addr and verifies the server answers
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisCache{client: client, prefix: "rez:"}, nil
}

// Get decodes the cached value into dest. A missing key returns false without error.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// DeletePrefix removes every key starting with prefix
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything. It is used when no redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error                    { return nil }

// Page cache keys
func OffersPageKey(region, tab string) string {
	return fmt.Sprintf("offers:page:%s:%s", region, tab)
}

const OffersPagePrefix = "offers:page:"

func HomepageKey(sections string, limit int) string {
	return fmt.Sprintf("homepage:%s:%d", sections, limit)
}

const HomepagePrefix = "homepage:"
