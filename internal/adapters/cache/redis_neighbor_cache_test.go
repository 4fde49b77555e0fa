package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisNeighborCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := NewRedisNeighborCache(rdb, 320, time.Hour)

	if _, ok, err := c.GetNeighbors(ctx, "Albany_NY"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	want := []string{"Edison_NJ", "Hartford_CT"}
	if err := c.PutNeighbors(ctx, "Albany_NY", want); err != nil {
		t.Fatalf("PutNeighbors: %v", err)
	}

	got, ok, err := c.GetNeighbors(ctx, "Albany_NY")
	if err != nil || !ok {
		t.Fatalf("GetNeighbors: ok=%v err=%v", ok, err)
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("GetNeighbors = %v, want %v", got, want)
	}
}

func TestRedisNeighborCacheEmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := NewRedisNeighborCache(rdb, 320, time.Hour)

	if err := c.PutNeighbors(ctx, "Isolated", nil); err != nil {
		t.Fatalf("PutNeighbors: %v", err)
	}

	got, ok, err := c.GetNeighbors(ctx, "Isolated")
	if err != nil || !ok {
		t.Fatalf("GetNeighbors: ok=%v err=%v", ok, err)
	}
	if len(got) != 0 {
		t.Fatalf("GetNeighbors = %v, want empty", got)
	}
}

func TestRedisNeighborCacheKeysByRange(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	short := NewRedisNeighborCache(rdb, 200, time.Hour)
	long := NewRedisNeighborCache(rdb, 320, time.Hour)

	if err := long.PutNeighbors(ctx, "Albany_NY", []string{"Edison_NJ"}); err != nil {
		t.Fatalf("PutNeighbors: %v", err)
	}

	if _, ok, err := short.GetNeighbors(ctx, "Albany_NY"); err != nil || ok {
		t.Fatalf("cache for another range must miss: ok=%v err=%v", ok, err)
	}
}

func TestRedisNeighborCacheExpires(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewRedisNeighborCache(rdb, 320, time.Minute)

	if err := c.PutNeighbors(ctx, "Albany_NY", []string{"Edison_NJ"}); err != nil {
		t.Fatalf("PutNeighbors: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.GetNeighbors(ctx, "Albany_NY"); err != nil || ok {
		t.Fatalf("expired entry must miss: ok=%v err=%v", ok, err)
	}
}
