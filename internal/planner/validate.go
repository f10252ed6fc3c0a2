package planner

import (
	"math"
	"strings"
	"time"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

const (
	maxDestinationLength = 255
	maxBudgetUSD         = 1_000_000
	maxTripDays          = 365
	maxBookingYears      = 2
)

// Validate checks every rule before failing and returns the derived day count.
// Dates are compared as calendar dates; time of day is ignored.
func Validate(in plan_models.PlanningInput, now time.Time) (int, error) {
	var violations []string

	destination := strings.TrimSpace(in.Destination)
	switch {
	case destination == "":
		violations = append(violations, "Destination is required")
	case len(destination) > maxDestinationLength:
		violations = append(violations, "Destination must be 255 characters or less")
	}

	hasStart := !in.StartDate.IsZero()
	hasEnd := !in.EndDate.IsZero()
	if !hasStart {
		violations = append(violations, "Start date is required")
	}
	if !hasEnd {
		violations = append(violations, "End date is required")
	}

	today := DateOnly(now)
	start := DateOnly(in.StartDate)
	end := DateOnly(in.EndDate)

	if hasStart {
		if start.Before(today) {
			violations = append(violations, "Start date cannot be in the past")
		}
		if start.After(today.AddDate(maxBookingYears, 0, 0)) {
			violations = append(violations, "Start date cannot be more than 2 years in the future")
		}
	}

	daysCount := 0
	if hasStart && hasEnd {
		if start.After(end) {
			violations = append(violations, "Start date must be on or before end date")
		} else {
			daysCount = DaysBetween(start, end)
			if daysCount < 1 {
				violations = append(violations, "Trip must be at least 1 day")
			}
			if daysCount > maxTripDays {
				violations = append(violations, "Trip cannot exceed 365 days")
			}
		}
	}

	if in.BudgetUSD <= 0 || math.IsNaN(in.BudgetUSD) {
		violations = append(violations, "Budget must be greater than 0")
	} else if in.BudgetUSD > maxBudgetUSD {
		violations = append(violations, "Budget cannot exceed $1,000,000")
	}

	if len(violations) > 0 {
		return 0, &ValidationError{Violations: violations}
	}
	return daysCount, nil
}

// DateOnly drops the time of day, keeping the calendar date as written.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween is ceil((end - start) in days) on calendar dates.
func DaysBetween(start, end time.Time) int {
	hours := DateOnly(end).Sub(DateOnly(start)).Hours()
	return int(math.Ceil(hours / 24))
}
