package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

func validInput() plan_models.PlanningInput {
	return plan_models.PlanningInput{
		Destination: "Paris, France",
		StartDate:   daysFromNow(14),
		EndDate:     daysFromNow(21),
		BudgetUSD:   2000,
	}
}

func TestValidate_DaysCount(t *testing.T) {
	days, err := Validate(validInput(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	in := validInput()
	in.StartDate = testNow
	in.EndDate = daysFromNow(1)
	days, err = Validate(in, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, days, "time of day is ignored")
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*plan_models.PlanningInput)
		want   string
	}{
		{"empty destination", func(in *plan_models.PlanningInput) { in.Destination = "  " }, "Destination is required"},
		{"long destination", func(in *plan_models.PlanningInput) { in.Destination = strings.Repeat("x", 256) }, "Destination must be 255 characters or less"},
		{"missing start", func(in *plan_models.PlanningInput) { in.StartDate = time.Time{} }, "Start date is required"},
		{"missing end", func(in *plan_models.PlanningInput) { in.EndDate = time.Time{} }, "End date is required"},
		{"start after end", func(in *plan_models.PlanningInput) { in.StartDate, in.EndDate = in.EndDate, in.StartDate }, "Start date must be on or before end date"},
		{"start in past", func(in *plan_models.PlanningInput) { in.StartDate = daysFromNow(-1) }, "Start date cannot be in the past"},
		{"start too far", func(in *plan_models.PlanningInput) {
			in.StartDate = daysFromNow(800)
			in.EndDate = daysFromNow(805)
		}, "Start date cannot be more than 2 years in the future"},
		{"same day", func(in *plan_models.PlanningInput) { in.EndDate = in.StartDate }, "Trip must be at least 1 day"},
		{"too long", func(in *plan_models.PlanningInput) { in.EndDate = in.StartDate.AddDate(0, 0, 366) }, "Trip cannot exceed 365 days"},
		{"zero budget", func(in *plan_models.PlanningInput) { in.BudgetUSD = 0 }, "Budget must be greater than 0"},
		{"negative budget", func(in *plan_models.PlanningInput) { in.BudgetUSD = -10 }, "Budget must be greater than 0"},
		{"huge budget", func(in *plan_models.PlanningInput) { in.BudgetUSD = 1_000_001 }, "Budget cannot exceed $1,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := Validate(in, testNow)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	in := plan_models.PlanningInput{
		StartDate: daysFromNow(3),
		EndDate:   daysFromNow(1),
		BudgetUSD: 0,
	}

	_, err := Validate(in, testNow)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{
		"Destination is required",
		"Start date must be on or before end date",
		"Budget must be greater than 0",
	}, ve.Violations)
	assert.Equal(t, "Destination is required; Start date must be on or before end date; Budget must be greater than 0", err.Error())
}

func TestValidate_BoundaryBudget(t *testing.T) {
	in := validInput()
	in.BudgetUSD = 1_000_000
	_, err := Validate(in, testNow)
	assert.NoError(t, err)
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2030, 1, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2030, 1, 31, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
}
