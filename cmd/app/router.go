package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fedeciancaglini/trip-ai/internal/api/controllers"
	"github.com/fedeciancaglini/trip-ai/pkg/middleware"
)

func RegisterRoutes(r *gin.Engine,
	jwtSecret []byte,
	limiter *middleware.IPRateLimiter,
	planController *controllers.PlanController,
	tripController *controllers.TripController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/plan-trip", limiter.Middleware(), planController.PlanTrip)

	trips := api.Group("/trips", middleware.JWTAuthMiddleware(jwtSecret))
	trips.POST("", tripController.SaveTrip)
	trips.GET("", tripController.ListTrips)
	trips.GET("/:id", tripController.GetTrip)
	trips.DELETE("/:id", tripController.DeleteTrip)
	trips.PATCH("/:id/favorite", tripController.ToggleFavorite)
}
