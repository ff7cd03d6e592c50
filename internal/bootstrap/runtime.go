// Package bootstrap wires up runtime dependencies shared by the server and
// the auxiliary commands.
package bootstrap

import (
	"fmt"

	"rightfit/internal/cache"
	"rightfit/internal/config"
	"rightfit/internal/database"
	"rightfit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltIns upserts the starter exercise catalog after the schema is
	// applied.
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally seeds built-in data.
// The Redis client may come back nil when the cache is unreachable; the API
// runs degraded without it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		if err := seed.Exercises(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in exercise catalog: %w", err)
		}
	}

	return db, r, nil
}
