package providers_fx

import (
	"context"
	"testing"

	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	mem "github.com/fedeciancaglini/trip-ai/pkg/memcache"
)

type stubRoutes struct{}

func (stubRoutes) ComputeRoute(context.Context, plan_models.Coordinates, plan_models.Coordinates) (*plan_models.RouteLegResult, error) {
	return &plan_models.RouteLegResult{}, nil
}

func TestStartCacheSweeper_Lifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	StartCacheSweeper(SweeperParams{
		Lifecycle: lc,
		Logger:    zap.NewNop(),
		Routes:    stubRoutes{},
		Geocodes:  mem.NewInMemoryGeocodeCache(),
	})

	lc.RequireStart()
	lc.RequireStop()
}

func TestStartCacheSweeper_NothingToSweep(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	StartCacheSweeper(SweeperParams{Lifecycle: lc, Logger: zap.NewNop(), Routes: stubRoutes{}})

	lc.RequireStart().RequireStop()
}
