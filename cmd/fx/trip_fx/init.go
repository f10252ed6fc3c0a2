package trip_fx

import (
	"go.uber.org/fx"

	"github.com/fedeciancaglini/trip-ai/internal/api/controllers"
	"github.com/fedeciancaglini/trip-ai/internal/repositories"
	"github.com/fedeciancaglini/trip-ai/internal/services"
)

var Module = fx.Provide(
	repositories.NewTripRepository,
	services.NewTripService,
	controllers.NewTripController)
