package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"pawpals/internal/domain"

	"github.com/redis/rueidis"
)

// RedisCache stores nearby results in Redis with a per-key TTL, delegating
// expiry and memory bounding to the server. Failures log and fall through to
// the store; the cache never fails a query.
type RedisCache struct {
	client rueidis.Client
}

func NewRedisCache(client rueidis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.NearbyEntry, bool) {
	res := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	bs, err := res.AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			log.Printf("nearby cache: get %q: %v", key, err)
		}
		return nil, false
	}
	var entries []domain.NearbyEntry
	if err := json.Unmarshal(bs, &entries); err != nil {
		log.Printf("nearby cache: decode %q: %v", key, err)
		return nil, false
	}
	return entries, true
}

func (c *RedisCache) Set(ctx context.Context, key string, entries []domain.NearbyEntry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	bs, err := json.Marshal(entries)
	if err != nil {
		log.Printf("nearby cache: encode %q: %v", key, err)
		return
	}
	cmd := c.client.B().Set().Key(key).Value(rueidis.BinaryString(bs)).Px(ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		log.Printf("nearby cache: set %q: %v", key, err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error(); err != nil {
		log.Printf("nearby cache: del %q: %v", key, err)
	}
}
