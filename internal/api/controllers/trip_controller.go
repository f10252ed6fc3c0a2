package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fedeciancaglini/trip-ai/internal/models/request_models"
	"github.com/fedeciancaglini/trip-ai/internal/services"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// SaveTrip godoc
// @Summary Save a planned trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.SaveTripRequest true "Plan returned by /api/plan-trip"
// @Success 201 {object} response_models.TripResponse
// @Security BearerAuth
// @Router /api/trips [post]
func (t *TripController) SaveTrip(c *gin.Context) {
	var req request_models.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeBadRequest, "A plan is required")
		return
	}

	trip, err := t.tripService.SaveTrip(c.Request.Context(), c.GetString("user_id"), req.Plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, trip)
}

// ListTrips godoc
// @Summary List saved trips
// @Tags Trips
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} response_models.TripListResponse
// @Security BearerAuth
// @Router /api/trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPageSize)
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), c.GetString("user_id"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, trips)
}

func (t *TripController) GetTrip(c *gin.Context) {
	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, trip)
}

func (t *TripController) DeleteTrip(c *gin.Context) {
	if err := t.tripService.DeleteTrip(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (t *TripController) ToggleFavorite(c *gin.Context) {
	trip, err := t.tripService.ToggleFavorite(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, trip)
}
