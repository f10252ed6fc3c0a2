package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// hasBothCoordinates gates the transport step in the graph.
func hasBothCoordinates(s *plan_models.PlanningState) bool {
	return s.OriginCoordinates != nil && s.DestinationCoordinates != nil
}

func transportModeStep(advisor TransportModeAdvisor, logger *zap.Logger) stepFunc {
	return func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch {
		if !hasBothCoordinates(s) {
			return plan_models.StatePatch{}
		}

		distanceKm := HaversineKm(*s.OriginCoordinates, *s.DestinationCoordinates)
		rec, err := advisor.DetermineTransportMode(ctx, s.Origin, s.Destination, distanceKm)
		if err != nil {
			logger.Warn("transport mode lookup failed", zap.Float64("distance_km", distanceKm), zap.Error(err))
			return plan_models.StatePatch{
				Errors: []string{fmt.Sprintf("Failed to determine transportation mode: %v", err)},
			}
		}

		// Reasoning is advisory and not kept in the state.
		logger.Info("transport mode selected",
			zap.String("mode", string(rec.Mode)),
			zap.Float64("distance_km", distanceKm),
			zap.String("reasoning", rec.Reasoning))

		mode := rec.Mode
		return plan_models.StatePatch{TransportationMode: &mode}
	}
}
