package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	mem "github.com/fedeciancaglini/trip-ai/pkg/memcache"
)

// --------- In-memory cache per (A,B) pair ---------

type pairKey struct {
	Profile string
	A       plan_models.Coordinates
	B       plan_models.Coordinates
}

func (k pairKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Profile, k.A, k.B)
}

// -------------- Mapbox Directions client ---------------

type MapboxDirectionsService struct {
	client  *mapboxClient
	cache   *mem.TTLStore[plan_models.RouteLegResult]
	ttl     time.Duration
	profile string
	logger  *zap.Logger
}

func NewMapboxDirectionsService(cfg MapboxConfig, logger *zap.Logger) (planner.RouteCalculator, error) {
	client, err := newMapboxClient(cfg)
	if err != nil {
		return nil, err
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "walking"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &MapboxDirectionsService{
		client:  client,
		cache:   mem.NewTTLStore[plan_models.RouteLegResult](),
		ttl:     ttl,
		profile: profile,
		logger:  logger.With(zap.String("component", "directions")),
	}, nil
}

var _ mem.Sweeper = (*MapboxDirectionsService)(nil)

// Sweep drops expired route legs.
func (s *MapboxDirectionsService) Sweep() int {
	return s.cache.Sweep()
}

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Maneuver struct {
					Instruction string `json:"instruction"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (s *MapboxDirectionsService) ComputeRoute(ctx context.Context, origin, destination plan_models.Coordinates) (*plan_models.RouteLegResult, error) {
	key := pairKey{Profile: s.profile, A: origin, B: destination}.String()
	if leg, ok := s.cache.Get(key); ok {
		return &leg, nil
	}

	coords := fmt.Sprintf("%f,%f;%f,%f", origin.Lng, origin.Lat, destination.Lng, destination.Lat)
	path := fmt.Sprintf("/directions/v5/mapbox/%s/%s", url.PathEscape(s.profile), coords)

	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("steps", "true")

	var payload directionsResponse
	if err := s.client.getJSON(ctx, path, q, &payload); err != nil {
		return nil, err
	}
	if payload.Code != "" && payload.Code != "Ok" {
		return nil, fmt.Errorf("mapbox directions: %s %s", payload.Code, payload.Message)
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("mapbox directions: no route between %s and %s", origin, destination)
	}

	route := payload.Routes[0]
	meters := int(math.Round(route.Distance))
	seconds := int(math.Round(route.Duration))
	leg := plan_models.RouteLegResult{
		DistanceMeters:  meters,
		DistanceLabel:   planner.FormatDistance(float64(meters)),
		DurationSeconds: seconds,
		DurationLabel:   planner.FormatDuration(seconds),
	}
	for _, l := range route.Legs {
		for _, st := range l.Steps {
			if st.Maneuver.Instruction != "" {
				leg.Steps = append(leg.Steps, st.Maneuver.Instruction)
			}
		}
	}

	if len(route.Geometry) > 0 {
		path, err := decodeLineString(route.Geometry)
		if err != nil {
			s.logger.Debug("route geometry ignored", zap.Error(err))
		} else {
			leg.Path = path
		}
	}

	s.cache.Set(key, leg, s.ttl)
	return &leg, nil
}

func decodeLineString(raw json.RawMessage) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, err
	}
	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected geometry type %s", g.Type)
	}
	return ls, nil
}
