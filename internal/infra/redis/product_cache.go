package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"

	"storefront-api/internal/domain"
)

// ProductCache stores single products as JSON under product:<id>. Redis
// failures degrade to a direct load.
type ProductCache struct {
	rdb   *goredis.Client
	ttl   time.Duration
	group singleflight.Group

	// generation is bumped by Invalidate; a load that overlaps one does not
	// write its possibly stale result back.
	generation atomic.Uint64
}

func NewProductCache(rdb *goredis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

// Fetch returns the cached product or calls load and caches its result.
// Concurrent misses for one id share a single load, which runs detached from
// the caller's cancellation. A nil product from load is returned as is and
// not cached.
func (c *ProductCache) Fetch(ctx context.Context, id uint64, load ProductLoader) (*domain.Product, error) {
	key := productKey(id)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p domain.Product
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
		log.Printf("cache: drop undecodable %s", key)
	case !errors.Is(err, goredis.Nil):
		log.Printf("cache: get %s: %v", key, err)
	}

	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(strconv.FormatUint(id, 10), func() (any, error) {
		gen := c.generation.Load()
		p, err := load(shared)
		if err != nil || p == nil {
			return p, err
		}
		if c.generation.Load() != gen {
			return p, nil
		}
		if data, err := json.Marshal(p); err == nil {
			if err := c.rdb.Set(shared, key, data, c.ttl).Err(); err != nil {
				log.Printf("cache: set %s: %v", key, err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*domain.Product)
	return p, nil
}

func (c *ProductCache) Invalidate(ctx context.Context, ids ...uint64) {
	if len(ids) == 0 {
		return
	}
	c.generation.Add(1)
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
		c.group.Forget(strconv.FormatUint(id, 10))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: invalidate %v: %v", keys, err)
	}
}
