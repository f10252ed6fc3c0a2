package mem

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// GeocodeCache remembers resolved addresses. A cache miss or a backend
// failure both report ok=false; callers always fall through to the provider.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (plan_models.Coordinates, bool)
	Set(ctx context.Context, address string, coords plan_models.Coordinates, ttl time.Duration)
}

// GeocodeKey normalizes an address so "Paris, France" and " paris,  france"
// share an entry.
func GeocodeKey(address string) string {
	return "geocode:" + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

type inMemoryGeocodeCache struct {
	store *TTLStore[plan_models.Coordinates]
}

func NewInMemoryGeocodeCache() GeocodeCache {
	return &inMemoryGeocodeCache{store: NewTTLStore[plan_models.Coordinates]()}
}

func (c *inMemoryGeocodeCache) Get(_ context.Context, address string) (plan_models.Coordinates, bool) {
	return c.store.Get(GeocodeKey(address))
}

func (c *inMemoryGeocodeCache) Sweep() int {
	return c.store.Sweep()
}

func (c *inMemoryGeocodeCache) Set(_ context.Context, address string, coords plan_models.Coordinates, ttl time.Duration) {
	c.store.Set(GeocodeKey(address), coords, ttl)
}

type redisGeocodeCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisGeocodeCache(rdb *redis.Client, logger *zap.Logger) GeocodeCache {
	return &redisGeocodeCache{rdb: rdb, logger: logger.With(zap.String("component", "geocode_cache"))}
}

func (c *redisGeocodeCache) Get(ctx context.Context, address string) (plan_models.Coordinates, bool) {
	raw, err := c.rdb.Get(ctx, GeocodeKey(address)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("address", address), zap.Error(err))
		}
		return plan_models.Coordinates{}, false
	}

	var coords plan_models.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		c.logger.Warn("corrupt geocode entry", zap.String("address", address), zap.Error(err))
		return plan_models.Coordinates{}, false
	}
	return coords, true
}

func (c *redisGeocodeCache) Set(ctx context.Context, address string, coords plan_models.Coordinates, ttl time.Duration) {
	raw, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, GeocodeKey(address), raw, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("address", address), zap.Error(err))
	}
}
