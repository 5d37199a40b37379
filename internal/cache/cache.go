package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a thin JSON read-cache over redis. A nil *Client disables
// caching: every method is nil-safe so callers never branch on availability.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Client {
	if rdb == nil {
		return nil
	}
	return &Client{rdb: rdb, ttl: ttl}
}

// Get retrieves a value and unmarshals it into dest. Returns false on miss.
func (c *Client) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// Set stores a value under the configured TTL.
func (c *Client) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Delete drops a key, e.g. to invalidate a report after a new earning.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, key).Err()
}
