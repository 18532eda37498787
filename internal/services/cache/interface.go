package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for cache implementations
type Cache interface {
	// Get retrieves a value or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL; ttl <= 0 uses the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases background resources
	Close() error
}

// Stats provides statistics about cache usage
type Stats struct {
	Backend   string `json:"backend"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Sets      int64  `json:"sets"`
	Evictions int64  `json:"evictions"`
	Entries   int64  `json:"entries"`
	Size      int64  `json:"sizeBytes,omitempty"`
	MaxSize   int64  `json:"maxSizeBytes,omitempty"`
}

// StatsProvider interface for caches that provide statistics
type StatsProvider interface {
	Stats() Stats
}

// Expirer is implemented by backends whose expired entries must be swept externally
type Expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Pinger is implemented by backends with a remote dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetJSON decodes a cached JSON value into dest. Found is false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dest any) (found bool, err error) {
	data, err := c.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// a corrupt entry is treated as a miss and dropped
		_ = c.Delete(ctx, key)
		return false, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
