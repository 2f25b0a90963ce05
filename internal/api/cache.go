package api

import (
	"context"
	"encoding/json"
)

const cachePrefix = "bookbnb:api:"

const (
	cacheKeyProperties     = cachePrefix + "properties"
	cacheKeyPropertyPrefix = cachePrefix + "property:"
)

func (c *Client) cacheEnabled() bool {
	return c.redis != nil && c.cacheTTL > 0
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if !c.cacheEnabled() {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if !c.cacheEnabled() {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to write API cache")
	}
}

// invalidateProperties drops the list and every cached property detail.
func (c *Client) invalidateProperties(ctx context.Context) {
	if !c.cacheEnabled() {
		return
	}
	keys := []string{cacheKeyProperties}
	iter := c.redis.Scan(ctx, 0, cacheKeyPropertyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to scan API cache")
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to invalidate API cache")
	}
}
