package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncLockKey is the advisory lock guarding a full sync pass. Only one pass
// may hold it at a time.
const SyncLockKey = "idx:sync:lock"

// Cache is a TTL key-value cache in front of every read endpoint. Entries
// are advisory: a miss or a cache failure only forces a re-fetch, never an
// error to the caller.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Cache{rdb: rdb}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get loads and deserializes the entry for key into dest. A miss returns
// (false, nil); it is not an error.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Put serializes value and stores it under key with the given expiry,
// replacing any existing entry.
func (c *Cache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete evicts the given keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// AcquireLock takes an advisory lock via SETNX. The TTL bounds how long a
// crashed holder can wedge the lock.
func (c *Cache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
