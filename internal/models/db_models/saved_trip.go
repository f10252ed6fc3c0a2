package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// SavedTrip is a settled planning result kept for one user.
type SavedTrip struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Destination string    `gorm:"not null"`
	Origin      string
	StartDate   time.Time `gorm:"type:date"`
	EndDate     time.Time `gorm:"type:date"`
	BudgetUSD   float64
	DaysCount   int

	DestinationCoordinates *plan_models.Coordinates   `gorm:"serializer:json"`
	OriginCoordinates      *plan_models.Coordinates   `gorm:"serializer:json"`
	TransportationMode     *plan_models.TransportMode `gorm:"type:text"`

	PointsOfInterest      []plan_models.POI            `gorm:"serializer:json"`
	DailyItinerary        []plan_models.DaySchedule    `gorm:"serializer:json"`
	RouteInformation      plan_models.RouteInformation `gorm:"serializer:json"`
	AirbnbRecommendations []plan_models.Listing        `gorm:"serializer:json"`
	Errors                pq.StringArray               `gorm:"type:text[]"`

	IsFavorite bool `gorm:"default:false"`
}

func (SavedTrip) TableName() string {
	return "saved_trips"
}
