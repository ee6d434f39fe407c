package hotels

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchCache caches hotel search results in Redis. A nil client disables
// caching: Get always misses and Set is a no-op.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a cache over the given Redis client
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Get returns the cached rows for a key, if present
func (c *SearchCache) Get(ctx context.Context, key string) ([]map[string]interface{}, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

// Set stores rows under a key with the configured TTL
func (c *SearchCache) Set(ctx context.Context, key string, rows []map[string]interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
