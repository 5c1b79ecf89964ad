package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeCatalogueKey = "facilities:active"

var ErrCacheMiss = errors.New("cache miss")

// Cache holds the active facility catalogue, which every booking screen reads.
type Cache interface {
	Active(ctx context.Context) ([]Facility, error)
	StoreActive(ctx context.Context, facilities []Facility) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Active(ctx context.Context) ([]Facility, error) {
	data, err := c.client.Get(ctx, activeCatalogueKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read catalogue cache: %w", err)
	}

	var facilities []Facility
	if err := json.Unmarshal(data, &facilities); err != nil {
		return nil, fmt.Errorf("decode catalogue cache: %w", err)
	}
	return facilities, nil
}

func (c *redisCache) StoreActive(ctx context.Context, facilities []Facility) error {
	data, err := json.Marshal(facilities)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeCatalogueKey, data, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeCatalogueKey).Err()
}

type nopCache struct{}

// NopCache never stores anything; every lookup is a miss.
func NopCache() Cache { return nopCache{} }

func (nopCache) Active(context.Context) ([]Facility, error)    { return nil, ErrCacheMiss }
func (nopCache) StoreActive(context.Context, []Facility) error { return nil }
func (nopCache) Invalidate(context.Context) error              { return nil }
