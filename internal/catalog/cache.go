package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const listingCacheKey = "catalog:images:list"

// Cache stores the fetched image listing in Redis so restarts within the TTL
// skip the upstream call. A nil client disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetListing returns the cached listing and whether the key existed.
func (c *Cache) GetListing(ctx context.Context) ([]Item, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, listingCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// SetListing serialises the listing and stores it with the configured TTL.
func (c *Cache) SetListing(ctx context.Context, items []Item) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingCacheKey, data, c.ttl).Err()
}
