package planner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// stepFunc reads what it needs from a snapshot and returns a partial update.
// Expected failures are reported through StatePatch.Errors, never returned.
type stepFunc func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch

func geocodeStep(geocoder Geocoder, logger *zap.Logger) stepFunc {
	return func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch {
		var patch plan_models.StatePatch

		coords, err := geocoder.Geocode(ctx, s.Destination)
		if err != nil {
			logger.Warn("destination geocoding failed", zap.String("destination", s.Destination), zap.Error(err))
			patch.Errors = append(patch.Errors, fmt.Sprintf("Failed to geocode destination %q: %v", s.Destination, err))
		} else {
			patch.DestinationCoordinates = &coords
		}

		origin := strings.TrimSpace(s.Origin)
		if origin == "" {
			return patch
		}

		originCoords, err := geocoder.Geocode(ctx, origin)
		if err != nil {
			logger.Warn("origin geocoding failed", zap.String("origin", origin), zap.Error(err))
			patch.Errors = append(patch.Errors, fmt.Sprintf("Failed to geocode origin %q: %v", origin, err))
			return patch
		}
		patch.OriginCoordinates = &originCoords
		return patch
	}
}
