package plan_models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// PlanningInput is the user supplied subset of a PlanningState.
type PlanningInput struct {
	Destination string
	Origin      string
	StartDate   time.Time
	EndDate     time.Time
	BudgetUSD   float64
}

// PlanningState is owned by a single planning run and never shared across runs.
type PlanningState struct {
	Destination string    `json:"destination"`
	Origin      string    `json:"origin,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	BudgetUSD   float64   `json:"budget"`
	DaysCount   int       `json:"daysCount"`

	DestinationCoordinates *Coordinates   `json:"destinationCoordinates,omitempty"`
	OriginCoordinates      *Coordinates   `json:"originCoordinates,omitempty"`
	TransportationMode     *TransportMode `json:"transportationMode,omitempty"`

	PointsOfInterest      []POI            `json:"pointsOfInterest"`
	DailyItinerary        []DaySchedule    `json:"dailyItinerary"`
	RouteInformation      RouteInformation `json:"routeInformation"`
	AirbnbRecommendations []Listing        `json:"airbnbRecommendations"`

	Errors []string `json:"errors"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

func NewPlanningState(in PlanningInput, now time.Time) *PlanningState {
	return &PlanningState{
		Destination:           in.Destination,
		Origin:                in.Origin,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		BudgetUSD:             in.BudgetUSD,
		PointsOfInterest:      []POI{},
		DailyItinerary:        []DaySchedule{},
		RouteInformation:      RouteInformation{Routes: []DayRoute{}},
		AirbnbRecommendations: []Listing{},
		Errors:                []string{},
		StartTime:             now,
	}
}

// Clone copies the top level slices so a snapshot never shares backing arrays
// with the state it was taken from. Values nested inside merged slices are
// treated as immutable.
func (s *PlanningState) Clone() *PlanningState {
	out := *s
	out.PointsOfInterest = slices.Clone(s.PointsOfInterest)
	out.DailyItinerary = slices.Clone(s.DailyItinerary)
	out.RouteInformation.Routes = slices.Clone(s.RouteInformation.Routes)
	out.AirbnbRecommendations = slices.Clone(s.AirbnbRecommendations)
	out.Errors = slices.Clone(s.Errors)
	if s.DestinationCoordinates != nil {
		c := *s.DestinationCoordinates
		out.DestinationCoordinates = &c
	}
	if s.OriginCoordinates != nil {
		c := *s.OriginCoordinates
		out.OriginCoordinates = &c
	}
	if s.TransportationMode != nil {
		m := *s.TransportationMode
		out.TransportationMode = &m
	}
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	return &out
}

// StatePatch is the partial update a step returns. Nil fields are not written;
// a step that wants to write an empty list sets a non-nil empty slice.
type StatePatch struct {
	DaysCount              *int
	DestinationCoordinates *Coordinates
	OriginCoordinates      *Coordinates
	TransportationMode     *TransportMode
	PointsOfInterest       []POI
	DailyItinerary         []DaySchedule
	RouteInformation       *RouteInformation
	AirbnbRecommendations  []Listing
	Errors                 []string
}

func (p StatePatch) Empty() bool {
	return p.DaysCount == nil && p.DestinationCoordinates == nil && p.OriginCoordinates == nil &&
		p.TransportationMode == nil && p.PointsOfInterest == nil && p.DailyItinerary == nil &&
		p.RouteInformation == nil && p.AirbnbRecommendations == nil && len(p.Errors) == 0
}

// Apply merges a patch, last write wins per field. Errors only ever grow.
func (s *PlanningState) Apply(p StatePatch) {
	if p.DaysCount != nil {
		s.DaysCount = *p.DaysCount
	}
	if p.DestinationCoordinates != nil {
		c := *p.DestinationCoordinates
		s.DestinationCoordinates = &c
	}
	if p.OriginCoordinates != nil {
		c := *p.OriginCoordinates
		s.OriginCoordinates = &c
	}
	if p.TransportationMode != nil {
		m := *p.TransportationMode
		s.TransportationMode = &m
	}
	if p.PointsOfInterest != nil {
		s.PointsOfInterest = p.PointsOfInterest
	}
	if p.DailyItinerary != nil {
		s.DailyItinerary = p.DailyItinerary
	}
	if p.RouteInformation != nil {
		s.RouteInformation = *p.RouteInformation
		if s.RouteInformation.Routes == nil {
			s.RouteInformation.Routes = []DayRoute{}
		}
	}
	if p.AirbnbRecommendations != nil {
		s.AirbnbRecommendations = p.AirbnbRecommendations
	}
	if len(p.Errors) > 0 {
		s.Errors = append(s.Errors, p.Errors...)
	}
}

func (s *PlanningState) HasErrors() bool {
	return len(s.Errors) > 0
}

// Nights is the number of nights the accommodation budget is divided by.
// It equals DaysCount.
func (s *PlanningState) Nights() int {
	return s.DaysCount
}

const calendarDate = "2006-01-02"

// MarshalJSON writes startDate and endDate as calendar dates, the same shape
// the plan request uses.
func (s PlanningState) MarshalJSON() ([]byte, error) {
	type alias PlanningState
	return json.Marshal(struct {
		alias
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{
		alias:     alias(s),
		StartDate: formatCalendarDate(s.StartDate),
		EndDate:   formatCalendarDate(s.EndDate),
	})
}

// UnmarshalJSON accepts calendar dates and, for plans stored before dates
// were written that way, RFC 3339 timestamps.
func (s *PlanningState) UnmarshalJSON(data []byte) error {
	type alias PlanningState
	aux := struct {
		*alias
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if s.StartDate, err = parseCalendarDate(aux.StartDate); err != nil {
		return fmt.Errorf("startDate: %w", err)
	}
	if s.EndDate, err = parseCalendarDate(aux.EndDate); err != nil {
		return fmt.Errorf("endDate: %w", err)
	}
	return nil
}

func formatCalendarDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(calendarDate)
}

func parseCalendarDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(calendarDate, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", v)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
