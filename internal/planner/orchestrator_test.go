package planner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

type plannerMocks struct {
	geocoder  *MockGeocoder
	pois      *MockPOIGenerator
	routes    *MockRouteCalculator
	transport *MockTransportAdvisor
	lodging   *MockLodgingSearcher
}

func newPlannerMocks() *plannerMocks {
	return &plannerMocks{
		geocoder:  new(MockGeocoder),
		pois:      new(MockPOIGenerator),
		routes:    new(MockRouteCalculator),
		transport: new(MockTransportAdvisor),
		lodging:   new(MockLodgingSearcher),
	}
}

func (m *plannerMocks) deps() Dependencies {
	return Dependencies{
		Geocoder:       m.geocoder,
		POIs:           m.pois,
		Routes:         m.routes,
		TransportModes: m.transport,
		Lodging:        m.lodging,
	}
}

// happy wires every collaborator to succeed.
func (m *plannerMocks) happy() *plannerMocks {
	m.geocoder.On("Geocode", mock.Anything, "Paris, France").Return(plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}, nil)
	m.geocoder.On("Geocode", mock.Anything, "London, UK").Return(plan_models.Coordinates{Lat: 51.5074, Lng: -0.1278}, nil)
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Return(parisPOIs, nil)
	m.routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.RouteLegResult{DistanceMeters: 2100, DurationSeconds: 540}, nil)
	m.transport.On("DetermineTransportMode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.TransportRecommendation{Mode: plan_models.TransportTrain, Reasoning: "Eurostar"}, nil)
	m.lodging.On("SearchLodging", mock.Anything, mock.Anything).Return(listings(12), nil)
	return m
}

func newTestOrchestrator(m *plannerMocks, opts ...Option) *Orchestrator {
	return NewOrchestrator(m.deps(), append([]Option{WithClock(fixedClock)}, opts...)...)
}

func TestExecuteTripPlanner_HappyPath(t *testing.T) {
	m := newPlannerMocks().happy()
	o := newTestOrchestrator(m)

	in := validInput()
	state, err := o.ExecuteTripPlanner(context.Background(), in, 0)
	require.NoError(t, err)

	assert.Equal(t, 7, state.DaysCount)
	assert.NotEmpty(t, state.PointsOfInterest)
	require.Len(t, state.DailyItinerary, 7)
	for i, day := range state.DailyItinerary {
		assert.Equal(t, i+1, day.Day)
		assert.Equal(t, in.StartDate.AddDate(0, 0, i).Format("2006-01-02"), day.Date)
	}
	assert.LessOrEqual(t, len(state.AirbnbRecommendations), 10)
	assert.Empty(t, state.Errors)
	require.NotNil(t, state.DestinationCoordinates)
	assert.Nil(t, state.OriginCoordinates)
	assert.Nil(t, state.TransportationMode, "no origin means no transport mode")
	require.NotNil(t, state.EndTime)
	assert.Equal(t, testNow, state.StartTime)

	m.pois.AssertCalled(t, "DiscoverPointsOfInterest", mock.Anything, mock.MatchedBy(func(r plan_models.POIRequest) bool {
		return r.Destination == "Paris, France" && r.TargetCount == 12
	}))
	m.transport.AssertNotCalled(t, "DetermineTransportMode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteTripPlanner_TransportModeWithOrigin(t *testing.T) {
	m := newPlannerMocks().happy()
	o := newTestOrchestrator(m)

	in := validInput()
	in.Origin = "London, UK"
	state, err := o.ExecuteTripPlanner(context.Background(), in, 0)
	require.NoError(t, err)

	require.NotNil(t, state.TransportationMode)
	assert.Equal(t, plan_models.TransportTrain, *state.TransportationMode)
	m.transport.AssertCalled(t, "DetermineTransportMode", mock.Anything, "London, UK", "Paris, France",
		mock.MatchedBy(func(km float64) bool { return km > 330 && km < 360 }))
}

func TestExecuteTripPlanner_ValidationCallsNothing(t *testing.T) {
	inputs := map[string]plan_models.PlanningInput{
		"empty destination": {StartDate: daysFromNow(1), EndDate: daysFromNow(3), BudgetUSD: 100},
		"start after end":   {Destination: "Rome", StartDate: daysFromNow(5), EndDate: daysFromNow(3), BudgetUSD: 100},
		"start in past":     {Destination: "Rome", StartDate: daysFromNow(-2), EndDate: daysFromNow(3), BudgetUSD: 100},
		"zero budget":       {Destination: "Rome", StartDate: daysFromNow(1), EndDate: daysFromNow(3)},
		"budget too high":   {Destination: "Rome", StartDate: daysFromNow(1), EndDate: daysFromNow(3), BudgetUSD: 2_000_000},
		"too many days":     {Destination: "Rome", StartDate: daysFromNow(1), EndDate: daysFromNow(400), BudgetUSD: 100},
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			m := newPlannerMocks()
			state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), in, 0)

			assert.Nil(t, state)
			assert.True(t, IsValidationError(err))
			m.geocoder.AssertNumberOfCalls(t, "Geocode", 0)
			m.pois.AssertNumberOfCalls(t, "DiscoverPointsOfInterest", 0)
			m.routes.AssertNumberOfCalls(t, "ComputeRoute", 0)
			m.transport.AssertNumberOfCalls(t, "DetermineTransportMode", 0)
			m.lodging.AssertNumberOfCalls(t, "SearchLodging", 0)
		})
	}
}

func TestExecuteTripPlanner_GeocodeFailureIsIsolated(t *testing.T) {
	m := newPlannerMocks()
	m.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(plan_models.Coordinates{}, errors.New("quota exceeded"))
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Return(parisPOIs[:4], nil)
	m.routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.RouteLegResult{DistanceMeters: 900, DurationSeconds: 300}, nil)
	m.lodging.On("SearchLodging", mock.Anything, mock.Anything).Return(listings(3), nil)

	state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)

	assert.Len(t, state.PointsOfInterest, 4)
	assert.Len(t, state.AirbnbRecommendations, 3)
	assert.Nil(t, state.DestinationCoordinates)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "geocode")
}

func TestExecuteTripPlanner_TransportSkippedWhenOriginFails(t *testing.T) {
	m := newPlannerMocks()
	m.geocoder.On("Geocode", mock.Anything, "Paris, France").Return(plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}, nil)
	m.geocoder.On("Geocode", mock.Anything, "Atlantis").Return(plan_models.Coordinates{}, errors.New("not found"))
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Return(parisPOIs, nil)
	m.routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).
		Return(&plan_models.RouteLegResult{DistanceMeters: 900, DurationSeconds: 300}, nil)
	m.lodging.On("SearchLodging", mock.Anything, mock.Anything).Return(listings(2), nil)

	in := validInput()
	in.Origin = "Atlantis"
	state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), in, 0)
	require.NoError(t, err)

	assert.Nil(t, state.TransportationMode)
	m.transport.AssertNumberOfCalls(t, "DetermineTransportMode", 0)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], `Failed to geocode origin "Atlantis"`)
}

func TestExecuteTripPlanner_TransportSkippedWithoutAdvisor(t *testing.T) {
	m := newPlannerMocks().happy()
	deps := m.deps()
	deps.TransportModes = nil

	in := validInput()
	in.Origin = "London, UK"
	state, err := NewOrchestrator(deps, WithClock(fixedClock)).ExecuteTripPlanner(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Nil(t, state.TransportationMode)
	assert.Empty(t, state.Errors)
}

func TestExecuteTripPlanner_Timeout(t *testing.T) {
	m := newPlannerMocks().happy()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	slow := new(MockLodgingSearcher)
	slow.On("SearchLodging", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(listings(1), nil)
	deps := m.deps()
	deps.Lodging = slow

	start := time.Now()
	state, err := NewOrchestrator(deps, WithClock(fixedClock)).
		ExecuteTripPlanner(context.Background(), validInput(), 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.Nil(t, state)
	require.True(t, IsTimeoutError(err))
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, int64(50), te.TimeoutMs())
	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestExecuteTripPlanner_ParentCancel(t *testing.T) {
	m := newPlannerMocks().happy()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	slow := new(MockPOIGenerator)
	slow.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(parisPOIs, nil)
	deps := m.deps()
	deps.POIs = slow

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := NewOrchestrator(deps, WithClock(fixedClock)).ExecuteTripPlanner(ctx, validInput(), time.Second)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTimeoutError(err))
}

func TestExecuteTripPlanner_EmptyPOIs(t *testing.T) {
	m := newPlannerMocks()
	m.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(plan_models.Coordinates{Lat: 48.8566, Lng: 2.3522}, nil)
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Return([]plan_models.POI{}, nil)
	m.lodging.On("SearchLodging", mock.Anything, mock.Anything).Return(listings(2), nil)

	state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)

	assert.Empty(t, state.DailyItinerary)
	assert.NotNil(t, state.DailyItinerary)
	assert.Empty(t, state.RouteInformation.Routes)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "Failed to discover points of interest")
	m.routes.AssertNumberOfCalls(t, "ComputeRoute", 0)
}

func TestExecuteTripPlanner_AccommodationCeiling(t *testing.T) {
	m := newPlannerMocks()
	m.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(plan_models.Coordinates{Lat: 41.9, Lng: 12.5}, nil)
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Return(parisPOIs[:2], nil)
	m.routes.On("ComputeRoute", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down"))
	m.lodging.On("SearchLodging", mock.Anything, mock.MatchedBy(func(q plan_models.LodgingQuery) bool {
		return q.MaxPrice == 100
	})).Return(listings(1), nil)

	in := validInput()
	in.BudgetUSD = 1000
	in.EndDate = in.StartDate.AddDate(0, 0, 10)

	state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, state.DaysCount)
	assert.Empty(t, state.Errors)
	m.lodging.AssertExpectations(t)
}

func TestExecuteTripPlanner_PanicBecomesError(t *testing.T) {
	m := newPlannerMocks().happy()
	boom := new(MockLodgingSearcher)
	boom.On("SearchLodging", mock.Anything, mock.Anything).Panic("nil listing")
	deps := m.deps()
	deps.Lodging = boom

	state, err := NewOrchestrator(deps, WithClock(fixedClock)).ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "accommodation")
	assert.Empty(t, state.AirbnbRecommendations)
	assert.Len(t, state.DailyItinerary, 7)
}

func TestExecuteTripPlanner_ListingDistance(t *testing.T) {
	m := newPlannerMocks().happy()
	state, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)

	for _, l := range state.AirbnbRecommendations {
		assert.NotEmpty(t, l.DistanceToRoute)
	}
}

func TestExecuteTripPlanner_RunsIndependentStepsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	track := func(mock.Arguments) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
	}

	m := newPlannerMocks()
	m.geocoder.On("Geocode", mock.Anything, mock.Anything).Run(track).Return(plan_models.Coordinates{Lat: 1, Lng: 1}, nil)
	m.pois.On("DiscoverPointsOfInterest", mock.Anything, mock.Anything).Run(track).Return(parisPOIs[:1], nil)
	m.lodging.On("SearchLodging", mock.Anything, mock.Anything).Run(track).Return(listings(1), nil)

	_, err := newTestOrchestrator(m).ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), peak.Load())
}

func TestExecuteTripPlanner_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	m := newPlannerMocks().happy()
	o := newTestOrchestrator(m, WithMetrics(metrics))

	_, err := o.ExecuteTripPlanner(context.Background(), validInput(), 0)
	require.NoError(t, err)
	_, err = o.ExecuteTripPlanner(context.Background(), plan_models.PlanningInput{}, 0)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(OutcomeValidationError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.stepFailures.WithLabelValues(stepGeocode)))
}
