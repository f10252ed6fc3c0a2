package planner

import (
	"context"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (plan_models.Coordinates, error)
}

// PointsOfInterestGenerator recommends attractions for a destination. It may
// return an empty list, which the planner treats as a failure.
type PointsOfInterestGenerator interface {
	DiscoverPointsOfInterest(ctx context.Context, req plan_models.POIRequest) ([]plan_models.POI, error)
}

// RouteCalculator computes one leg. Failures are per leg.
type RouteCalculator interface {
	ComputeRoute(ctx context.Context, origin, destination plan_models.Coordinates) (*plan_models.RouteLegResult, error)
}

// TransportModeAdvisor picks the primary way to travel between two places.
type TransportModeAdvisor interface {
	DetermineTransportMode(ctx context.Context, origin, destination string, distanceKm float64) (*plan_models.TransportRecommendation, error)
}

// LodgingSearcher returns listings already ranked by the provider.
type LodgingSearcher interface {
	SearchLodging(ctx context.Context, query plan_models.LodgingQuery) ([]plan_models.Listing, error)
}

// Dependencies are created once by the composition root and shared by every
// run. TransportModes is optional; without it the transport step never runs.
type Dependencies struct {
	Geocoder       Geocoder
	POIs           PointsOfInterestGenerator
	Routes         RouteCalculator
	TransportModes TransportModeAdvisor
	Lodging        LodgingSearcher
}
