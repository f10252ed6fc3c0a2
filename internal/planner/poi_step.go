package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const (
	minPOITarget = 8
	maxPOITarget = 12
)

// poiTarget asks for two POIs per day, kept within 8..12.
func poiTarget(days int) int {
	return min(max(days*2, minPOITarget), maxPOITarget)
}

func pointsOfInterestStep(generator PointsOfInterestGenerator, logger *zap.Logger) stepFunc {
	return func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch {
		req := plan_models.POIRequest{
			Destination: s.Destination,
			StartDate:   s.StartDate,
			EndDate:     s.EndDate,
			TargetCount: poiTarget(s.DaysCount),
		}

		pois, err := generator.DiscoverPointsOfInterest(ctx, req)
		if err == nil && len(pois) == 0 {
			err = fmt.Errorf("%w for %s", ErrNoPointsOfInterest, s.Destination)
		}
		if err != nil {
			logger.Warn("points of interest discovery failed", zap.String("destination", s.Destination), zap.Error(err))
			return plan_models.StatePatch{
				PointsOfInterest: []plan_models.POI{},
				Errors:           []string{fmt.Sprintf("Failed to discover points of interest: %v", err)},
			}
		}

		logger.Info("points of interest discovered", zap.Int("count", len(pois)), zap.Int("target", req.TargetCount))
		return plan_models.StatePatch{PointsOfInterest: pois}
	}
}
