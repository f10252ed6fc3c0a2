package config_fx

import (
	"go.uber.org/fx"

	"github.com/fedeciancaglini/trip-ai/internal/config"
)

var Module = fx.Provide(
	config.Load,
	config.NewLogger)
