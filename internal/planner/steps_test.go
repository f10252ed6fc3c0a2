package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

func stateFor(days int, pois []plan_models.POI) *plan_models.PlanningState {
	in := validInput()
	in.EndDate = in.StartDate.AddDate(0, 0, days)
	s := plan_models.NewPlanningState(in, testNow)
	s.DaysCount = days
	s.PointsOfInterest = pois
	return s
}

func TestPartitionByDay(t *testing.T) {
	buckets := partitionByDay(parisPOIs[:5], 3)
	require.Len(t, buckets, 3)
	assert.Len(t, buckets[0].pois, 2)
	assert.Len(t, buckets[1].pois, 2)
	assert.Len(t, buckets[2].pois, 1)

	buckets = partitionByDay(parisPOIs[:2], 4)
	require.Len(t, buckets, 4)
	assert.Len(t, buckets[0].pois, 1)
	assert.Len(t, buckets[1].pois, 1)
	assert.Empty(t, buckets[2].pois)
	assert.Empty(t, buckets[3].pois)
}

func TestTimeWindow(t *testing.T) {
	assert.Equal(t, "09:00 - 11:00", timeWindow(0))
	assert.Equal(t, "11:00 - 13:00", timeWindow(1))
	assert.Equal(t, "15:00 - 17:00", timeWindow(3))
	assert.Equal(t, "23:00 - 01:00", timeWindow(7))
}

func TestRoutePlanningStep_Itinerary(t *testing.T) {
	routes := new(MockRouteCalculator)
	routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.RouteLegResult{DistanceMeters: 1500, DurationSeconds: 600}, nil)

	s := stateFor(3, parisPOIs[:6])
	patch := routePlanningStep(routes, zap.NewNop())(context.Background(), s)

	require.Empty(t, patch.Errors)
	require.Len(t, patch.DailyItinerary, 3)
	for i, day := range patch.DailyItinerary {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, DateOnly(s.StartDate).AddDate(0, 0, i).Format("2006-01-02"), day.Date)
		require.Len(t, day.POIs, 2)
		assert.Equal(t, "4 hours", day.TotalDuration)
		assert.Equal(t, "09:00 - 11:00", day.POIs[0].TimeWindow)
		assert.Equal(t, "11:00 - 13:00", day.POIs[1].TimeWindow)
		assert.Equal(t, 0, day.POIs[0].TravelTimeFromPrevious)
		assert.Equal(t, 10, day.POIs[1].TravelTimeFromPrevious)
		assert.Equal(t, 120, day.POIs[1].DurationMinutes)
	}

	info := patch.RouteInformation
	require.NotNil(t, info)
	require.Len(t, info.Routes, 3)
	assert.Equal(t, "Eiffel Tower", info.Routes[0].Legs[0].StartLocation)
	assert.Equal(t, "Louvre Museum", info.Routes[0].Legs[0].EndLocation)
	assert.Equal(t, "1.5 km", info.Routes[0].Legs[0].Distance)
	assert.Equal(t, "10 minutes", info.Routes[0].Legs[0].Duration)
	assert.False(t, info.Routes[0].Legs[0].Estimated)
	assert.Equal(t, "4.5 km", info.TotalDistance)
	assert.Equal(t, "30 minutes", info.TotalDuration)
	routes.AssertNumberOfCalls(t, "ComputeRoute", 3)
}

func TestRoutePlanningStep_LegFallbackIsSilent(t *testing.T) {
	routes := new(MockRouteCalculator)
	routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no route")).Once()
	routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.RouteLegResult{DistanceMeters: 800, DurationSeconds: 240, DistanceLabel: "800 m", DurationLabel: "4 minutes"}, nil)

	s := stateFor(1, parisPOIs[:3])
	patch := routePlanningStep(routes, zap.NewNop())(context.Background(), s)

	require.Empty(t, patch.Errors)
	legs := patch.RouteInformation.Routes[0].Legs
	require.Len(t, legs, 2)

	expected := estimateLeg(parisPOIs[0].Coordinates(), parisPOIs[1].Coordinates())
	assert.True(t, legs[0].Estimated)
	assert.Equal(t, expected.DurationSeconds, legs[0].DurationSeconds)
	assert.False(t, legs[1].Estimated)
	assert.Equal(t, "800 m", legs[1].Distance)
}

func TestRoutePlanningStep_NilCalculatorEstimates(t *testing.T) {
	s := stateFor(2, parisPOIs[:3])
	patch := routePlanningStep(nil, zap.NewNop())(context.Background(), s)

	require.Empty(t, patch.Errors)
	require.Len(t, patch.DailyItinerary, 2)
	assert.Len(t, patch.DailyItinerary[0].POIs, 2)
	assert.Len(t, patch.DailyItinerary[1].POIs, 1)
	assert.Equal(t, "2 hours", patch.DailyItinerary[1].TotalDuration)
	assert.True(t, patch.RouteInformation.Routes[0].Legs[0].Estimated)
	assert.Empty(t, patch.RouteInformation.Routes[1].Legs)
}

func TestRoutePlanningStep_EmptyPOIs(t *testing.T) {
	routes := new(MockRouteCalculator)
	patch := routePlanningStep(routes, zap.NewNop())(context.Background(), stateFor(3, []plan_models.POI{}))

	assert.Empty(t, patch.Errors)
	assert.NotNil(t, patch.DailyItinerary)
	assert.Empty(t, patch.DailyItinerary)
	require.NotNil(t, patch.RouteInformation)
	assert.NotNil(t, patch.RouteInformation.Routes)
	assert.Empty(t, patch.RouteInformation.Routes)
	routes.AssertNotCalled(t, "ComputeRoute", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoutePlanningStep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	patch := routePlanningStep(nil, zap.NewNop())(ctx, stateFor(1, parisPOIs[:3]))
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "Failed to plan routes")
	assert.Empty(t, patch.DailyItinerary)
	assert.Empty(t, patch.RouteInformation.Routes)
}

func TestAccommodationStep_PriceCeiling(t *testing.T) {
	lodging := new(MockLodgingSearcher)
	lodging.On("SearchLodging", mock.Anything, mock.MatchedBy(func(q plan_models.LodgingQuery) bool {
		return q.MaxPrice == 100 && q.MinPrice == 0 && q.Nights == 10
	})).Return(listings(15), nil)

	s := stateFor(10, nil)
	s.BudgetUSD = 1000
	patch := accommodationStep(lodging, zap.NewNop())(context.Background(), s)

	assert.Empty(t, patch.Errors)
	assert.Len(t, patch.AirbnbRecommendations, 10)
	lodging.AssertExpectations(t)
}

func TestAccommodationStep_FloorsCeiling(t *testing.T) {
	assert.Equal(t, 142, pricePerNightCeiling(1000, 7))
	assert.Equal(t, 1000, pricePerNightCeiling(1000, 0))
}

func TestAccommodationStep_Failures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		lodging := new(MockLodgingSearcher)
		lodging.On("SearchLodging", mock.Anything, mock.Anything).Return(nil, errors.New("mcp down"))

		patch := accommodationStep(lodging, zap.NewNop())(context.Background(), stateFor(2, nil))
		require.Len(t, patch.Errors, 1)
		assert.Contains(t, patch.Errors[0], "Failed to search accommodations: mcp down")
		assert.NotNil(t, patch.AirbnbRecommendations)
		assert.Empty(t, patch.AirbnbRecommendations)
	})

	t.Run("no listings", func(t *testing.T) {
		lodging := new(MockLodgingSearcher)
		lodging.On("SearchLodging", mock.Anything, mock.Anything).Return([]plan_models.Listing{}, nil)

		s := stateFor(4, nil)
		s.BudgetUSD = 400
		patch := accommodationStep(lodging, zap.NewNop())(context.Background(), s)
		require.Len(t, patch.Errors, 1)
		assert.Contains(t, patch.Errors[0], "no accommodations found")
		assert.Contains(t, patch.Errors[0], "$100 per night")
	})
}

func TestPOITarget(t *testing.T) {
	assert.Equal(t, 8, poiTarget(1))
	assert.Equal(t, 10, poiTarget(5))
	assert.Equal(t, 12, poiTarget(30))
}

func TestTransportModeStep_NoopWithoutCoordinates(t *testing.T) {
	advisor := new(MockTransportAdvisor)
	patch := transportModeStep(advisor, zap.NewNop())(context.Background(), stateFor(2, nil))

	assert.True(t, patch.Empty())
	advisor.AssertNotCalled(t, "DetermineTransportMode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
