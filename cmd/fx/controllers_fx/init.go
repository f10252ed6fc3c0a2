package controllers_fx

import (
	"go.uber.org/fx"

	"github.com/fedeciancaglini/trip-ai/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlanController))
