package planner

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (plan_models.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(plan_models.Coordinates), args.Error(1)
}

type MockPOIGenerator struct {
	mock.Mock
}

func (m *MockPOIGenerator) DiscoverPointsOfInterest(ctx context.Context, req plan_models.POIRequest) ([]plan_models.POI, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan_models.POI), args.Error(1)
}

type MockRouteCalculator struct {
	mock.Mock
}

func (m *MockRouteCalculator) ComputeRoute(ctx context.Context, origin, destination plan_models.Coordinates) (*plan_models.RouteLegResult, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan_models.RouteLegResult), args.Error(1)
}

type MockTransportAdvisor struct {
	mock.Mock
}

func (m *MockTransportAdvisor) DetermineTransportMode(ctx context.Context, origin, destination string, distanceKm float64) (*plan_models.TransportRecommendation, error) {
	args := m.Called(ctx, origin, destination, distanceKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan_models.TransportRecommendation), args.Error(1)
}

type MockLodgingSearcher struct {
	mock.Mock
}

func (m *MockLodgingSearcher) SearchLodging(ctx context.Context, query plan_models.LodgingQuery) ([]plan_models.Listing, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan_models.Listing), args.Error(1)
}

var (
	testNow   = time.Date(2030, time.March, 1, 15, 30, 0, 0, time.UTC)
	parisPOIs = []plan_models.POI{
		{Name: "Eiffel Tower", Lat: 48.8584, Lng: 2.2945, Category: "landmark"},
		{Name: "Louvre Museum", Lat: 48.8606, Lng: 2.3376, Category: "museum"},
		{Name: "Notre-Dame", Lat: 48.8530, Lng: 2.3499, Category: "landmark"},
		{Name: "Sacre-Coeur", Lat: 48.8867, Lng: 2.3431, Category: "landmark"},
		{Name: "Musee d'Orsay", Lat: 48.8600, Lng: 2.3266, Category: "museum"},
		{Name: "Arc de Triomphe", Lat: 48.8738, Lng: 2.2950, Category: "landmark"},
		{Name: "Luxembourg Gardens", Lat: 48.8462, Lng: 2.3372, Category: "park"},
		{Name: "Sainte-Chapelle", Lat: 48.8554, Lng: 2.3450, Category: "landmark"},
		{Name: "Le Marais", Lat: 48.8590, Lng: 2.3620, Category: "neighborhood"},
		{Name: "Pantheon", Lat: 48.8462, Lng: 2.3464, Category: "landmark"},
		{Name: "Centre Pompidou", Lat: 48.8607, Lng: 2.3522, Category: "museum"},
		{Name: "Opera Garnier", Lat: 48.8720, Lng: 2.3316, Category: "landmark"},
	}
)

func fixedClock() time.Time { return testNow }

func daysFromNow(n int) time.Time {
	return DateOnly(testNow).AddDate(0, 0, n)
}

func listings(n int) []plan_models.Listing {
	out := make([]plan_models.Listing, n)
	for i := range out {
		out[i] = plan_models.Listing{
			ID:            string(rune('a' + i)),
			Name:          "Listing",
			PricePerNight: 90,
			TotalPrice:    630,
			Coordinates:   plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522},
		}
	}
	return out
}
