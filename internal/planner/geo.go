package planner

import (
	"math"

	"github.com/paulmach/orb/geo"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const earthRadiusKm = 6371.0

// secondsPerKm is the straight-line travel estimate used when a leg cannot be routed.
const secondsPerKm = 60.0

// HaversineKm is the great-circle distance on a 6371 km sphere.
func HaversineKm(a, b plan_models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// estimateLeg is the per-leg fallback when the routing provider fails.
func estimateLeg(a, b plan_models.Coordinates) *plan_models.RouteLegResult {
	km := HaversineKm(a, b)
	meters := int(math.Round(km * 1000))
	seconds := int(math.Round(km * secondsPerKm))
	return &plan_models.RouteLegResult{
		DistanceLabel:   FormatDistance(float64(meters)),
		DistanceMeters:  meters,
		DurationLabel:   FormatDuration(seconds),
		DurationSeconds: seconds,
	}
}

// nearestPOIMeters returns the distance from p to the closest POI.
func nearestPOIMeters(p plan_models.Coordinates, pois []plan_models.POI) (float64, bool) {
	if len(pois) == 0 {
		return 0, false
	}
	best := math.MaxFloat64
	for _, poi := range pois {
		d := geo.DistanceHaversine(p.Point(), poi.Coordinates().Point())
		if d < best {
			best = d
		}
	}
	return best, true
}
