package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "Tasklist/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyGeneration = "items:gen"
	keyListPrefix = "items:list:"
)

// ItemCache caches the full item list in Redis. Lists are stored per
// generation; every write bumps the generation, so a fill that raced a
// write lands under a key nobody reads again.
type ItemCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewItemCache returns a new ItemCache.
func NewItemCache(rdb *redis.Client, ttl time.Duration) *ItemCache {
	return &ItemCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current list generation (0 before the first write).
func (c *ItemCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

// GetList returns the list cached for gen or nil on a miss.
func (c *ItemCache) GetList(ctx context.Context, gen int64) ([]dom.Item, error) {
	b, err := c.rdb.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Item, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list read under gen.
func (c *ItemCache) SetList(ctx context.Context, gen int64, list []dom.Item) error {
	if list == nil {
		list = []dom.Item{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(gen), b, c.ttl).Err()
}

// Invalidate starts a new generation (called after every write). Lists of
// older generations expire with their TTL.
func (c *ItemCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, keyGeneration).Err()
}

func listKey(gen int64) string {
	return keyListPrefix + strconv.FormatInt(gen, 10)
}
