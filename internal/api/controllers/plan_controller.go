package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/config"
	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/models/request_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

type PlanController struct {
	planner      planner.TripPlannerInterface
	strictErrors bool
	logger       *zap.Logger
}

func NewPlanController(p planner.TripPlannerInterface, cfg *config.Config, logger *zap.Logger) *PlanController {
	return &PlanController{
		planner:      p,
		strictErrors: cfg.StrictErrors,
		logger:       logger.With(zap.String("component", "plan_controller")),
	}
}

// PlanTrip godoc
// @Summary Plan a trip
// @Description Runs the planning workflow and returns the settled plan. Step failures are reported in data.errors.
// @Tags Planner
// @Accept json
// @Produce json
// @Param request body request_models.PlanTripRequest true "Destination, dates (YYYY-MM-DD) and budget in USD"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 504 {object} utils.APIResponse
// @Router /api/plan-trip [post]
func (p *PlanController) PlanTrip(c *gin.Context) {
	var req request_models.PlanTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeBadRequest, "Invalid request body")
		return
	}

	in, err := toPlanningInput(req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	state, err := p.planner.ExecuteTripPlanner(c.Request.Context(), in, 0)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if p.strictErrors && state.HasErrors() {
		p.logger.Info("rejecting incomplete plan",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.Int("errors", len(state.Errors)))
		utils.RespondPartial(c, http.StatusBadRequest, utils.CodePlanningIncomplete, strings.Join(state.Errors, "; "), state)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, state)
}

// toPlanningInput leaves absent dates zero so the planner reports them
// together with every other violation.
func toPlanningInput(req request_models.PlanTripRequest) (plan_models.PlanningInput, error) {
	in := plan_models.PlanningInput{
		Destination: req.Destination,
		Origin:      strings.TrimSpace(req.Origin),
		BudgetUSD:   req.Budget,
	}
	var err error
	if in.StartDate, err = optionalDate(req.StartDate); err != nil {
		return in, err
	}
	if in.EndDate, err = optionalDate(req.EndDate); err != nil {
		return in, err
	}
	return in, nil
}

func optionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return utils.ParseDate(strings.TrimSpace(s))
}
