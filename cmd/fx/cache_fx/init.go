package cache_fx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/config"
	mem "github.com/fedeciancaglini/trip-ai/pkg/memcache"
)

var Module = fx.Provide(provideGeocodeCache)

// provideGeocodeCache uses Redis when REDIS_URL is set so cached coordinates
// survive restarts and are shared between replicas.
func provideGeocodeCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (mem.GeocodeCache, error) {
	if cfg.RedisURL == "" {
		logger.Info("geocode cache: in-memory")
		return mem.NewInMemoryGeocodeCache(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, geocode lookups will miss the cache", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})

	logger.Info("geocode cache: redis", zap.String("addr", opts.Addr))
	return mem.NewRedisGeocodeCache(rdb, logger), nil
}
