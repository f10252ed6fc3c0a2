package planner

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const DefaultTimeout = 60 * time.Second

var errPlanTimedOut = errors.New("planning deadline exceeded")

// TripPlannerInterface is what the HTTP and CLI layers depend on.
type TripPlannerInterface interface {
	// ExecuteTripPlanner runs one planning request. A zero timeout uses the
	// planner default. Only *ValidationError, *TimeoutError or a cancelled
	// ctx are returned as errors; every other failure ends up in state.Errors.
	ExecuteTripPlanner(ctx context.Context, in plan_models.PlanningInput, timeout time.Duration) (*plan_models.PlanningState, error)
}

type Orchestrator struct {
	deps    Dependencies
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *Metrics
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock replaces the clock used for "today" and the run start time.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func NewOrchestrator(deps Dependencies, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:    deps,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(zap.String("component", "planner"))
	return o
}

func (o *Orchestrator) buildGraph() *graph {
	transportReady := func(s *plan_models.PlanningState) bool {
		return o.deps.TransportModes != nil && hasBothCoordinates(s)
	}

	return &graph{
		logger: o.logger,
		m:      o.metrics,
		nodes: []node{
			{name: stepGeocode, run: geocodeStep(o.deps.Geocoder, o.logger)},
			{name: stepPointsOfInterest, run: pointsOfInterestStep(o.deps.POIs, o.logger)},
			{name: stepAccommodation, run: accommodationStep(o.deps.Lodging, o.logger)},
			{
				name: stepTransportMode,
				deps: []string{stepGeocode},
				when: transportReady,
				run:  transportModeStep(o.deps.TransportModes, o.logger),
			},
			{
				name: stepRoutes,
				deps: []string{stepPointsOfInterest},
				run:  routePlanningStep(o.deps.Routes, o.logger),
			},
		},
	}
}

func (o *Orchestrator) ExecuteTripPlanner(ctx context.Context, in plan_models.PlanningInput, timeout time.Duration) (*plan_models.PlanningState, error) {
	if timeout <= 0 {
		timeout = o.timeout
	}

	now := o.now()
	daysCount, err := Validate(in, now)
	if err != nil {
		o.metrics.observeRun(OutcomeValidationError)
		o.logger.Info("planning input rejected", zap.Error(err))
		return nil, err
	}

	state := plan_models.NewPlanningState(in, now)
	state.Apply(plan_models.StatePatch{DaysCount: &daysCount})

	runCtx, cancel := context.WithTimeoutCause(ctx, timeout, errPlanTimedOut)
	defer cancel()

	log := o.logger.With(zap.String("destination", in.Destination), zap.Int("days", daysCount))
	log.Info("planning started", zap.Duration("timeout", timeout))

	if err := o.buildGraph().run(runCtx, state); err != nil {
		// The abandoned state is never returned, so steps still running
		// cannot reach anything the caller holds.
		if errors.Is(context.Cause(runCtx), errPlanTimedOut) && ctx.Err() == nil {
			o.metrics.observeRun(OutcomeTimeout)
			log.Warn("planning timed out", zap.Duration("timeout", timeout))
			return nil, &TimeoutError{Timeout: timeout}
		}
		if ctx.Err() != nil {
			o.metrics.observeRun(OutcomeCanceled)
			log.Info("planning canceled", zap.Error(ctx.Err()))
			return nil, ctx.Err()
		}
		o.metrics.observeRun(OutcomeDegraded)
		log.Error("planning graph failed", zap.Error(err))
		return nil, err
	}

	annotateListingDistances(state)

	end := o.now()
	state.EndTime = &end

	if state.HasErrors() {
		o.metrics.observeRun(OutcomeDegraded)
		log.Warn("planning finished with errors", zap.Strings("errors", state.Errors))
	} else {
		o.metrics.observeRun(OutcomeSuccess)
		log.Info("planning finished",
			zap.Int("pois", len(state.PointsOfInterest)),
			zap.Int("listings", len(state.AirbnbRecommendations)))
	}
	return state, nil
}

// annotateListingDistances fills in the distance from each located listing to
// the closest point of interest when the provider did not supply one.
func annotateListingDistances(s *plan_models.PlanningState) {
	s.AirbnbRecommendations = slices.Clone(s.AirbnbRecommendations)
	for i := range s.AirbnbRecommendations {
		l := &s.AirbnbRecommendations[i]
		if l.DistanceToRoute != "" || l.Coordinates == (plan_models.Coordinates{}) || !l.Coordinates.Valid() {
			continue
		}
		if meters, ok := nearestPOIMeters(l.Coordinates, s.PointsOfInterest); ok {
			l.DistanceToRoute = FormatDistance(meters)
		}
	}
}
