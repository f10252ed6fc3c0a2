package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/db_models"
	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/models/response_models"
	"github.com/fedeciancaglini/trip-ai/internal/repositories"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

const maxPageSize = 100

type TripServiceInterface interface {
	SaveTrip(ctx context.Context, userID string, plan *plan_models.PlanningState) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, userID string, page, pageSize int) (*response_models.TripListResponse, error)
	GetTrip(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error
	ToggleFavorite(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

func NewTripService(tripRepo repositories.TripRepository, logger *zap.Logger) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
		logger:   logger.With(zap.String("component", "trips")),
	}
}

func (t *TripService) SaveTrip(ctx context.Context, userID string, plan *plan_models.PlanningState) (*response_models.TripResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.Destination == "" {
		return nil, fmt.Errorf("%w: plan with a destination is required", utils.ErrInvalidRequest)
	}

	trip := tripFromPlan(uid, plan)
	if err := t.tripRepo.Create(ctx, trip); err != nil {
		t.logger.Error("save trip", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toTripResponse(trip), nil
}

func (t *TripService) ListTrips(ctx context.Context, userID string, page, pageSize int) (*response_models.TripListResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	trips, total, err := t.tripRepo.ListByUser(ctx, uid, page, pageSize)
	if err != nil {
		t.logger.Error("list trips", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	items := make([]response_models.TripSummaryResponse, 0, len(trips))
	for _, trip := range trips {
		items = append(items, response_models.TripSummaryResponse{
			ID:          trip.ID.String(),
			Destination: trip.Destination,
			StartDate:   utils.FormatDate(trip.StartDate),
			EndDate:     utils.FormatDate(trip.EndDate),
			Budget:      trip.BudgetUSD,
			DaysCount:   trip.DaysCount,
			IsFavorite:  trip.IsFavorite,
			CreatedAt:   trip.CreatedAt,
		})
	}
	return &response_models.TripListResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (t *TripService) GetTrip(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error) {
	trip, err := t.load(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return toTripResponse(trip), nil
}

func (t *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	uid, tid, err := parseIDs(userID, tripID)
	if err != nil {
		return err
	}
	deleted, err := t.tripRepo.Delete(ctx, uid, tid)
	if err != nil {
		t.logger.Error("delete trip", zap.String("trip_id", tripID), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !deleted {
		return utils.ErrTripNotFound
	}
	return nil
}

func (t *TripService) ToggleFavorite(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error) {
	trip, err := t.load(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	updated, err := t.tripRepo.SetFavorite(ctx, trip.UserID, trip.ID, !trip.IsFavorite)
	if err != nil {
		t.logger.Error("toggle favorite", zap.String("trip_id", tripID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !updated {
		return nil, utils.ErrTripNotFound
	}
	trip.IsFavorite = !trip.IsFavorite
	return toTripResponse(trip), nil
}

func (t *TripService) load(ctx context.Context, userID, tripID string) (*db_models.SavedTrip, error) {
	uid, tid, err := parseIDs(userID, tripID)
	if err != nil {
		return nil, err
	}
	trip, err := t.tripRepo.GetByID(ctx, uid, tid)
	if err != nil {
		t.logger.Error("get trip", zap.String("trip_id", tripID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func parseUserID(userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, utils.ErrUnauthorized
	}
	return uid, nil
}

func parseIDs(userID, tripID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	tid, err := uuid.Parse(tripID)
	if err != nil {
		return uuid.Nil, uuid.Nil, utils.ErrInvalidTripID
	}
	return uid, tid, nil
}

func tripFromPlan(userID uuid.UUID, p *plan_models.PlanningState) *db_models.SavedTrip {
	return &db_models.SavedTrip{
		UserID:                 userID,
		Destination:            p.Destination,
		Origin:                 p.Origin,
		StartDate:              p.StartDate,
		EndDate:                p.EndDate,
		BudgetUSD:              p.BudgetUSD,
		DaysCount:              p.DaysCount,
		DestinationCoordinates: p.DestinationCoordinates,
		OriginCoordinates:      p.OriginCoordinates,
		TransportationMode:     p.TransportationMode,
		PointsOfInterest:       p.PointsOfInterest,
		DailyItinerary:         p.DailyItinerary,
		RouteInformation:       p.RouteInformation,
		AirbnbRecommendations:  p.AirbnbRecommendations,
		Errors:                 p.Errors,
	}
}

func toTripResponse(t *db_models.SavedTrip) *response_models.TripResponse {
	resp := &response_models.TripResponse{
		ID:                     t.ID.String(),
		Destination:            t.Destination,
		Origin:                 t.Origin,
		StartDate:              utils.FormatDate(t.StartDate),
		EndDate:                utils.FormatDate(t.EndDate),
		Budget:                 t.BudgetUSD,
		DaysCount:              t.DaysCount,
		DestinationCoordinates: t.DestinationCoordinates,
		OriginCoordinates:      t.OriginCoordinates,
		TransportationMode:     t.TransportationMode,
		PointsOfInterest:       t.PointsOfInterest,
		DailyItinerary:         t.DailyItinerary,
		RouteInformation:       t.RouteInformation,
		AirbnbRecommendations:  t.AirbnbRecommendations,
		Errors:                 t.Errors,
		IsFavorite:             t.IsFavorite,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
	if resp.PointsOfInterest == nil {
		resp.PointsOfInterest = []plan_models.POI{}
	}
	if resp.DailyItinerary == nil {
		resp.DailyItinerary = []plan_models.DaySchedule{}
	}
	if resp.RouteInformation.Routes == nil {
		resp.RouteInformation.Routes = []plan_models.DayRoute{}
	}
	if resp.AirbnbRecommendations == nil {
		resp.AirbnbRecommendations = []plan_models.Listing{}
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	return resp
}
