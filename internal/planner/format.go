package planner

import (
	"fmt"
	"math"
)

// FormatDuration renders a duration in seconds for display.
//
//	30   -> "30 seconds"
//	150  -> "3 minutes"
//	3600 -> "1 hour"
//	5400 -> "1h 30m"
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return plural(seconds, "second")
	}
	if seconds < 3600 {
		minutes := int(math.Round(float64(seconds) / 60))
		if minutes >= 60 {
			return plural(1, "hour")
		}
		return plural(minutes, "minute")
	}

	hours := seconds / 3600
	minutes := int(math.Round(float64(seconds%3600) / 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if minutes == 0 {
		return plural(hours, "hour")
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatDistance renders meters as "500 m" or "1.5 km".
func FormatDistance(meters float64) string {
	if meters < 0 {
		meters = 0
	}
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatHours is the per-day occupancy label, e.g. "6 hours".
func FormatHours(hours int) string {
	return plural(hours, "hour")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
