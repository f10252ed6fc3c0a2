package plan_models

import (
	"time"

	"github.com/paulmach/orb"
)

// POIRequest asks a points-of-interest generator for recommendations.
// TargetCount is a hint derived from the trip length.
type POIRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	TargetCount int
}

// RouteLegResult is what a routing provider returns for one origin/destination pair.
type RouteLegResult struct {
	DistanceLabel   string
	DistanceMeters  int
	DurationLabel   string
	DurationSeconds int
	Steps           []string
	Path            orb.LineString
}

type TransportRecommendation struct {
	Mode      TransportMode
	Reasoning string
}

// LodgingQuery prices are whole USD per night.
type LodgingQuery struct {
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int
	MinPrice    int
	MaxPrice    int
}
