package response_models

import "github.com/fedeciancaglini/trip-ai/internal/models/plan_models"

type TripResponse struct {
	ID                     string                       `json:"id"`
	Destination            string                       `json:"destination"`
	Origin                 string                       `json:"origin,omitempty"`
	StartDate              string                       `json:"startDate"`
	EndDate                string                       `json:"endDate"`
	Budget                 float64                      `json:"budget"`
	DaysCount              int                          `json:"daysCount"`
	DestinationCoordinates *plan_models.Coordinates     `json:"destinationCoordinates,omitempty"`
	OriginCoordinates      *plan_models.Coordinates     `json:"originCoordinates,omitempty"`
	TransportationMode     *plan_models.TransportMode   `json:"transportationMode,omitempty"`
	PointsOfInterest       []plan_models.POI            `json:"pointsOfInterest"`
	DailyItinerary         []plan_models.DaySchedule    `json:"dailyItinerary"`
	RouteInformation       plan_models.RouteInformation `json:"routeInformation"`
	AirbnbRecommendations  []plan_models.Listing        `json:"airbnbRecommendations"`
	Errors                 []string                     `json:"errors"`
	IsFavorite             bool                         `json:"isFavorite"`
	CreatedAt              int64                        `json:"createdAt"`
	UpdatedAt              int64                        `json:"updatedAt"`
}

// TripSummaryResponse is the list view of a saved trip.
type TripSummaryResponse struct {
	ID          string  `json:"id"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Budget      float64 `json:"budget"`
	DaysCount   int     `json:"daysCount"`
	IsFavorite  bool    `json:"isFavorite"`
	CreatedAt   int64   `json:"createdAt"`
}

type TripListResponse struct {
	Items    []TripSummaryResponse `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Total    int64                 `json:"total"`
}
