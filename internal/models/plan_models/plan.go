package plan_models

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinates as an orb point (lon, lat order).
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

type TransportMode string

const (
	TransportPlane       TransportMode = "plane"
	TransportTrain       TransportMode = "train"
	TransportBus         TransportMode = "bus"
	TransportCar         TransportMode = "car"
	TransportFerry       TransportMode = "ferry"
	TransportCombination TransportMode = "combination"
)

var transportModes = []TransportMode{
	TransportPlane, TransportTrain, TransportBus, TransportCar, TransportFerry, TransportCombination,
}

// ParseTransportMode accepts any casing and surrounding whitespace.
func ParseTransportMode(s string) (TransportMode, error) {
	candidate := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range transportModes {
		if m == candidate {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

type POI struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Category    string  `json:"category"`
}

func (p POI) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}

type DayPOI struct {
	POI
	TimeWindow             string `json:"timeWindow"`
	DurationMinutes        int    `json:"duration"`
	TravelTimeFromPrevious int    `json:"travelTimeFromPrevious"`
}

type DaySchedule struct {
	Day           int      `json:"day"`
	Date          string   `json:"date"`
	POIs          []DayPOI `json:"pois"`
	TotalDuration string   `json:"totalDuration"`
}

type RouteLeg struct {
	StartLocation   string `json:"startLocation"`
	EndLocation     string `json:"endLocation"`
	Distance        string `json:"distance"`
	Duration        string `json:"duration"`
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	Estimated       bool   `json:"estimated,omitempty"`
}

type DayRoute struct {
	Day  int        `json:"day"`
	Legs []RouteLeg `json:"legs"`
}

type RouteInformation struct {
	TotalDistance string     `json:"totalDistance"`
	TotalDuration string     `json:"totalDuration"`
	Routes        []DayRoute `json:"routes"`
}

type Listing struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	TotalPrice      float64     `json:"totalPrice"`
	PricePerNight   float64     `json:"pricePerNight"`
	Link            string      `json:"link"`
	Coordinates     Coordinates `json:"coordinates"`
	DistanceToRoute string      `json:"distanceToRoute"`
	Rating          *float64    `json:"rating,omitempty"`
	ReviewCount     *int        `json:"reviewCount,omitempty"`
	Image           string      `json:"image,omitempty"`
}
