package planner_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/config"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
)

var Module = fx.Provide(
	ProvideMetrics,
	ProvideDependencies,
	ProvideTripPlanner)

func ProvideMetrics() *planner.Metrics {
	return planner.NewMetrics(prometheus.DefaultRegisterer)
}

type DependenciesParams struct {
	fx.In

	Geocoder       planner.Geocoder
	POIs           planner.PointsOfInterestGenerator
	Routes         planner.RouteCalculator      `optional:"true"`
	TransportModes planner.TransportModeAdvisor `optional:"true"`
	Lodging        planner.LodgingSearcher
}

func ProvideDependencies(p DependenciesParams) planner.Dependencies {
	return planner.Dependencies{
		Geocoder:       p.Geocoder,
		POIs:           p.POIs,
		Routes:         p.Routes,
		TransportModes: p.TransportModes,
		Lodging:        p.Lodging,
	}
}

func ProvideTripPlanner(deps planner.Dependencies, cfg *config.Config, metrics *planner.Metrics, logger *zap.Logger) planner.TripPlannerInterface {
	return planner.NewOrchestrator(deps,
		planner.WithTimeout(cfg.PlannerTimeout),
		planner.WithLogger(logger),
		planner.WithMetrics(metrics))
}
