package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	mem "github.com/fedeciancaglini/trip-ai/pkg/memcache"
)

var ErrAddressNotFound = errors.New("address not found")

type MapboxGeocodingService struct {
	client *mapboxClient
	cache  mem.GeocodeCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewMapboxGeocodingService(cfg MapboxConfig, cache mem.GeocodeCache, logger *zap.Logger) (planner.Geocoder, error) {
	client, err := newMapboxClient(cfg)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = mem.NewInMemoryGeocodeCache()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &MapboxGeocodingService{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "geocoding")),
	}, nil
}

type geocodingResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

func (s *MapboxGeocodingService) Geocode(ctx context.Context, address string) (plan_models.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return plan_models.Coordinates{}, fmt.Errorf("%w: empty address", ErrAddressNotFound)
	}

	if coords, ok := s.cache.Get(ctx, address); ok {
		return coords, nil
	}

	q := url.Values{}
	q.Set("limit", "1")
	path := "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json"

	var payload geocodingResponse
	if err := s.client.getJSON(ctx, path, q, &payload); err != nil {
		return plan_models.Coordinates{}, err
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return plan_models.Coordinates{}, fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}

	center := payload.Features[0].Center
	coords := plan_models.Coordinates{Lat: center[1], Lng: center[0]}
	if !coords.Valid() {
		return plan_models.Coordinates{}, fmt.Errorf("mapbox returned invalid coordinates %v for %s", center, address)
	}

	s.logger.Debug("geocoded",
		zap.String("address", address),
		zap.String("place", payload.Features[0].PlaceName),
		zap.Stringer("coords", coords))
	s.cache.Set(ctx, address, coords, s.ttl)
	return coords, nil
}
