// internal/content/cache.go
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// CachedRepository is a read-through Redis cache in front of a Repository.
// Cache failures fall back to the underlying repository; only NotFound from
// the source is treated as missing. Misses caused by deleted items are not
// negatively cached so a re-published item shows up within one TTL.
type CachedRepository struct {
	source Repository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedRepository(source Repository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		source: source,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "content_cache").Logger(),
	}
}

func cacheKey(itemType model.ContentItemType, itemID string) string {
	return fmt.Sprintf("content:%s:%s", itemType, itemID)
}

func (c *CachedRepository) GetItem(ctx context.Context, itemType model.ContentItemType, itemID string) (*model.ContentItem, error) {
	key := cacheKey(itemType, itemID)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var item model.ContentItem
		if err := json.Unmarshal([]byte(raw), &item); err == nil {
			return &item, nil
		}
		// Corrupt entry, treat as miss.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to source")
	}

	item, err := c.source.GetItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return item, nil
}

var _ Repository = (*CachedRepository)(nil)
