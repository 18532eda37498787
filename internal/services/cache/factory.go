package cache

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/pkg/config"
)

// New builds the backend selected by cache.backend
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (Cache, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.Cache.Memory.MaxSizeMB), nil
	case "redis":
		return NewRedisCache(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database cache backend requires a database connection")
		}
		return NewDatabaseCache(db), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", cfg.Cache.Backend)
	}
}
