package cache

import (
	"charging-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNeighborCache stores neighbor lists in Redis so that several planner
// processes share the cost of the neighbor scan.
//
// Keys include the range the lists were computed for, so changing the
// vehicle range never serves stale neighbors.
type RedisNeighborCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisNeighborCache(rdb *redis.Client, rangeKm float64, ttl time.Duration) *RedisNeighborCache {
	return &RedisNeighborCache{
		rdb:    rdb,
		prefix: "neighbors:" + strconv.FormatFloat(rangeKm, 'f', -1, 64) + ":",
		ttl:    ttl,
	}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}

	return rdb, nil
}

func (c *RedisNeighborCache) key(id string) string { return c.prefix + id }

// Fetch the cached neighbor ids of one station.
func (c *RedisNeighborCache) GetNeighbors(ctx context.Context, id string) (_ []string, _ bool, err error) {
	defer obs.Time(ctx, "neighbors.cache.Get")(&err)

	if c.rdb == nil {
		return nil, false, errors.New("neighbor cache: redis client is nil")
	}

	if id == "" {
		return nil, false, errors.New("get neighbor cache: id must not be empty")
	}

	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get neighbor cache id=%q: %w", id, err)
	}

	var neighbors []string
	if err := json.Unmarshal(raw, &neighbors); err != nil {
		return nil, false, fmt.Errorf("get neighbor cache id=%q: decode: %w", id, err)
	}

	return neighbors, true, nil
}

// Store the neighbor ids of one station.
func (c *RedisNeighborCache) PutNeighbors(ctx context.Context, id string, neighbors []string) error {
	if c.rdb == nil {
		return errors.New("neighbor cache: redis client is nil")
	}

	if id == "" {
		return errors.New("put neighbor cache: id must not be empty")
	}

	if neighbors == nil {
		neighbors = []string{}
	}

	raw, err := json.Marshal(neighbors)
	if err != nil {
		return fmt.Errorf("put neighbor cache id=%q: encode: %w", id, err)
	}

	if err := c.rdb.Set(ctx, c.key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put neighbor cache id=%q: %w", id, err)
	}

	return nil
}
