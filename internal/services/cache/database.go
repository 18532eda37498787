package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

const defaultDatabaseTTL = 24 * time.Hour

// DatabaseCache persists entries in the cache_entries table. Expired rows are
// ignored on read and removed by DeleteExpired.
type DatabaseCache struct {
	db  *gorm.DB
	now func() time.Time

	hits, misses, sets atomic.Int64
}

// NewDatabaseCache creates a cache over an already migrated database
func NewDatabaseCache(db *gorm.DB) *DatabaseCache {
	return &DatabaseCache{db: db, now: time.Now}
}

// Get retrieves a value or ErrCacheMiss
func (dc *DatabaseCache) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.CacheEntry
	err := dc.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, dc.now().UTC()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dc.misses.Add(1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup %s: %w", key, err)
	}
	dc.hits.Add(1)
	return entry.Value, nil
}

// Set upserts a value
func (dc *DatabaseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultDatabaseTTL
	}
	entry := models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: dc.now().UTC().Add(ttl),
	}
	err := dc.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("cache store %s: %w", key, err)
	}
	dc.sets.Add(1)
	return nil
}

// Delete removes a value
func (dc *DatabaseCache) Delete(ctx context.Context, key string) error {
	if err := dc.db.WithContext(ctx).Delete(&models.CacheEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// DeleteExpired removes every stale row and reports how many were dropped
func (dc *DatabaseCache) DeleteExpired(ctx context.Context) (int64, error) {
	res := dc.db.WithContext(ctx).Where("expires_at <= ?", dc.now().UTC()).Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting expired cache entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats returns counters and the current row count
func (dc *DatabaseCache) Stats() Stats {
	var count int64
	dc.db.Model(&models.CacheEntry{}).Count(&count)
	return Stats{
		Backend: "database",
		Hits:    dc.hits.Load(),
		Misses:  dc.misses.Load(),
		Sets:    dc.sets.Load(),
		Entries: count,
	}
}

// Close is a no-op; the connection belongs to the caller
func (dc *DatabaseCache) Close() error {
	return nil
}
