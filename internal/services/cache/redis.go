package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTTL = 24 * time.Hour

// RedisCache stores entries in redis under a key prefix; expiry is native
type RedisCache struct {
	rdb    *redis.Client
	prefix string

	hits, misses, sets atomic.Int64
}

// RedisOptions configures NewRedisCache
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisCache connects and pings redis
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", opts.Addr, err)
	}

	return NewRedisCacheFromClient(rdb, opts.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (rc *RedisCache) key(k string) string {
	return rc.prefix + k
}

// Get retrieves a value or ErrCacheMiss
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.rdb.Get(ctx, rc.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		rc.misses.Add(1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	rc.hits.Add(1)
	return data, nil
}

// Set stores a value with a TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	if err := rc.rdb.Set(ctx, rc.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	rc.sets.Add(1)
	return nil
}

// Delete removes a value
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.rdb.Del(ctx, rc.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection
func (rc *RedisCache) Ping(ctx context.Context) error {
	return rc.rdb.Ping(ctx).Err()
}

// Stats returns client-side counters
func (rc *RedisCache) Stats() Stats {
	return Stats{
		Backend: "redis",
		Hits:    rc.hits.Load(),
		Misses:  rc.misses.Load(),
		Sets:    rc.sets.Load(),
	}
}

// Close closes the client
func (rc *RedisCache) Close() error {
	return rc.rdb.Close()
}
