package request_models

import "github.com/fedeciancaglini/trip-ai/internal/models/plan_models"

// PlanTripRequest dates are calendar dates, "YYYY-MM-DD". Field rules are
// enforced by the planner so every violation is reported at once.
type PlanTripRequest struct {
	Destination string  `json:"destination"`
	Origin      string  `json:"origin,omitempty"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Budget      float64 `json:"budget"`
}

type SaveTripRequest struct {
	Plan *plan_models.PlanningState `json:"plan" binding:"required"`
}
