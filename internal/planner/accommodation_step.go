package planner

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const maxListings = 10

// pricePerNightCeiling divides the whole-stay budget by the number of nights.
func pricePerNightCeiling(budgetUSD float64, nights int) int {
	if nights < 1 {
		nights = 1
	}
	return int(math.Floor(budgetUSD / float64(nights)))
}

func accommodationStep(lodging LodgingSearcher, logger *zap.Logger) stepFunc {
	return func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch {
		nights := max(s.Nights(), 1)
		query := plan_models.LodgingQuery{
			Destination: s.Destination,
			CheckIn:     DateOnly(s.StartDate),
			CheckOut:    DateOnly(s.EndDate),
			Nights:      nights,
			MinPrice:    0,
			MaxPrice:    pricePerNightCeiling(s.BudgetUSD, nights),
		}

		listings, err := lodging.SearchLodging(ctx, query)
		if err == nil && len(listings) == 0 {
			err = fmt.Errorf("%w in %s under $%d per night", ErrNoListings, s.Destination, query.MaxPrice)
		}
		if err != nil {
			logger.Warn("accommodation search failed",
				zap.String("destination", s.Destination),
				zap.Int("max_price", query.MaxPrice),
				zap.Error(err))
			return plan_models.StatePatch{
				AirbnbRecommendations: []plan_models.Listing{},
				Errors:                []string{fmt.Sprintf("Failed to search accommodations: %v", err)},
			}
		}

		if len(listings) > maxListings {
			listings = listings[:maxListings]
		}
		logger.Info("accommodations found", zap.Int("count", len(listings)), zap.Int("max_price", query.MaxPrice))
		return plan_models.StatePatch{AirbnbRecommendations: listings}
	}
}
