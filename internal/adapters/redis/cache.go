package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wanderbot/internal/adapters/observability"
)

// Cache keeps JSON documents in Redis: hotel and weather lookups plus
// assistant session memory. TTLs are given in seconds; zero keeps the key.
type Cache struct {
	rdb *redis.Client
}

func New(addr, pass string, db int) *Cache {
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (c *Cache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.rdb.Close() }

func event(name string) { observability.ObserveCache("redis", name) }

// Get reports false without error when key is absent. A value that no
// longer decodes into dst counts as a miss and returns the decode error.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		event("miss")
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		event("miss")
		return false, fmt.Errorf("cached %s is not valid JSON: %w", key, err)
	}
	event("hit")
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, time.Duration(ttlSec)*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	event("set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	event("del")
	return nil
}
