package planner

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const (
	dayStartHour       = 9
	visitMinutes       = 120
	visitHoursPerPOI   = visitMinutes / 60
	itineraryDateStyle = "2006-01-02"
)

// dayBucket accumulates one day of the itinerary before it is rendered.
type dayBucket struct {
	pois []plan_models.POI
}

// partitionByDay spreads POIs over days by index, ceil(n/days) per day.
// Trailing days may be empty.
func partitionByDay(pois []plan_models.POI, days int) []dayBucket {
	if days < 1 {
		days = 1
	}
	buckets := make([]dayBucket, days)
	if len(pois) == 0 {
		return buckets
	}

	perDay := int(math.Ceil(float64(len(pois)) / float64(days)))
	for i, poi := range pois {
		idx := i / perDay
		buckets[idx].pois = append(buckets[idx].pois, poi)
	}
	return buckets
}

// timeWindow returns the slot label for the n-th visit of a day (0-based).
func timeWindow(n int) string {
	startMin := dayStartHour*60 + n*visitMinutes
	endMin := startMin + visitMinutes
	return fmt.Sprintf("%s - %s", clock(startMin), clock(endMin))
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

func routePlanningStep(routes RouteCalculator, logger *zap.Logger) stepFunc {
	return func(ctx context.Context, s *plan_models.PlanningState) plan_models.StatePatch {
		if len(s.PointsOfInterest) == 0 {
			return plan_models.StatePatch{
				DailyItinerary:   []plan_models.DaySchedule{},
				RouteInformation: &plan_models.RouteInformation{Routes: []plan_models.DayRoute{}},
			}
		}

		buckets := partitionByDay(s.PointsOfInterest, s.DaysCount)
		itinerary := make([]plan_models.DaySchedule, 0, len(buckets))
		dayRoutes := make([]plan_models.DayRoute, 0, len(buckets))
		totalMeters, totalSeconds, estimated := 0, 0, 0

		for i, bucket := range buckets {
			day := i + 1
			schedule := plan_models.DaySchedule{
				Day:           day,
				Date:          DateOnly(s.StartDate).AddDate(0, 0, i).Format(itineraryDateStyle),
				POIs:          make([]plan_models.DayPOI, 0, len(bucket.pois)),
				TotalDuration: FormatHours(len(bucket.pois) * visitHoursPerPOI),
			}
			dayRoute := plan_models.DayRoute{Day: day, Legs: []plan_models.RouteLeg{}}

			for j, poi := range bucket.pois {
				travelMinutes := 0
				if j > 0 {
					if err := ctx.Err(); err != nil {
						return routeFailure(logger, err)
					}
					prev := bucket.pois[j-1]
					leg, fallback := computeLeg(ctx, routes, prev, poi, logger)
					if fallback {
						estimated++
					}
					travelMinutes = int(math.Round(float64(leg.DurationSeconds) / 60))
					totalMeters += leg.DistanceMeters
					totalSeconds += leg.DurationSeconds
					dayRoute.Legs = append(dayRoute.Legs, plan_models.RouteLeg{
						StartLocation:   prev.Name,
						EndLocation:     poi.Name,
						Distance:        leg.DistanceLabel,
						Duration:        leg.DurationLabel,
						DistanceMeters:  leg.DistanceMeters,
						DurationSeconds: leg.DurationSeconds,
						Estimated:       fallback,
					})
				}

				schedule.POIs = append(schedule.POIs, plan_models.DayPOI{
					POI:                    poi,
					TimeWindow:             timeWindow(j),
					DurationMinutes:        visitMinutes,
					TravelTimeFromPrevious: travelMinutes,
				})
			}

			itinerary = append(itinerary, schedule)
			dayRoutes = append(dayRoutes, dayRoute)
		}

		logger.Info("itinerary planned",
			zap.Int("days", len(itinerary)),
			zap.Int("pois", len(s.PointsOfInterest)),
			zap.Int("estimated_legs", estimated))

		return plan_models.StatePatch{
			DailyItinerary: itinerary,
			RouteInformation: &plan_models.RouteInformation{
				TotalDistance: FormatDistance(float64(totalMeters)),
				TotalDuration: FormatDuration(totalSeconds),
				Routes:        dayRoutes,
			},
		}
	}
}

// computeLeg asks the provider for one leg and falls back to a straight-line
// estimate on any failure. The fallback is never reported as a step error.
func computeLeg(ctx context.Context, routes RouteCalculator, from, to plan_models.POI, logger *zap.Logger) (*plan_models.RouteLegResult, bool) {
	if routes != nil {
		leg, err := routes.ComputeRoute(ctx, from.Coordinates(), to.Coordinates())
		if err == nil && leg != nil {
			if leg.DistanceLabel == "" {
				leg.DistanceLabel = FormatDistance(float64(leg.DistanceMeters))
			}
			if leg.DurationLabel == "" {
				leg.DurationLabel = FormatDuration(leg.DurationSeconds)
			}
			return leg, false
		}
		logger.Debug("route leg estimated", zap.String("from", from.Name), zap.String("to", to.Name), zap.Error(err))
	}
	return estimateLeg(from.Coordinates(), to.Coordinates()), true
}

func routeFailure(logger *zap.Logger, err error) plan_models.StatePatch {
	logger.Warn("route planning interrupted", zap.Error(err))
	return plan_models.StatePatch{
		DailyItinerary:   []plan_models.DaySchedule{},
		RouteInformation: &plan_models.RouteInformation{Routes: []plan_models.DayRoute{}},
		Errors:           []string{fmt.Sprintf("Failed to plan routes: %v", err)},
	}
}
