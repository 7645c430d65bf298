// internal/cache/cache.go
//
// Result cache over Redis. Entries are JSON-encoded under a shared key
// prefix; the only consistency property is that entries older than their
// TTL are treated as absent (Redis expiry handles that for us).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-movie-night/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "movierec:"

type Cache struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     logger.Logger
}

func New(client *redis.Client, defaultTTL time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client:     client,
		defaultTTL: defaultTTL,
		logger:     log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

// Key builds a deterministic cache key from its parts.
func Key(parts ...string) string {
	return strings.Join(parts, "_")
}

func (c *Cache) prefixed(key string) string {
	return keyPrefix + key
}

// Get unmarshals the cached value for key into v. The second return is
// false when the key is missing or expired.
func (c *Cache) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		// A corrupted entry behaves like a miss; drop it so the next
		// write starts clean.
		c.logger.Warn("dropping corrupted cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		_ = c.client.Del(ctx, c.prefixed(key)).Err()
		return false, nil
	}

	return true, nil
}

// Set stores v under key with the given TTL. A zero ttl uses the default.
func (c *Cache) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, c.prefixed(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a single entry.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefixed(key)).Err(); err != nil {
		return fmt.Errorf("cache remove %s: %w", key, err)
	}
	return nil
}

// Clear deletes every entry under the cache prefix.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}
