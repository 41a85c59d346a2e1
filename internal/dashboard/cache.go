package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered dashboard payloads in Redis. A nil client
// disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates the dashboard cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(view string) string {
	return "dashboard:" + view
}

// Get loads a cached payload into target. ok is false on miss or when
// caching is disabled; Redis failures surface as misses so the
// dashboard still renders from the database.
func (c *Cache) Get(ctx context.Context, view string, target any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, c.key(view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a payload under the view key.
func (c *Cache) Set(ctx context.Context, view string, payload any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(view), raw, c.ttl).Err()
}

// Invalidate drops every dashboard key; called by the warmup job
// before refreshing.
func (c *Cache) Invalidate(ctx context.Context, views ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = c.key(v)
	}
	return c.client.Del(ctx, keys...).Err()
}
