// cmd/fx/providers_fx/init.go
package providers_fx

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/config"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	"github.com/fedeciancaglini/trip-ai/internal/services"
	mem "github.com/fedeciancaglini/trip-ai/pkg/memcache"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

const cacheSweepInterval = 10 * time.Minute

var Module = fx.Options(
	fx.Provide(
		ProvideLLMClient,
		ProvideMapboxConfig,
		ProvideGeocoder,
		ProvideRouteCalculator,
		ProvidePointsOfInterestGenerator,
		ProvideTransportModeAdvisor,
		ProvideLodgingSearcher),
	fx.Invoke(StartCacheSweeper),
)

type SweeperParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.Logger
	Routes    planner.RouteCalculator `optional:"true"`
	Geocodes  mem.GeocodeCache        `optional:"true"`
}

// StartCacheSweeper evicts expired entries from the process-local caches so
// keys that are never read again do not pile up.
func StartCacheSweeper(p SweeperParams) {
	lc, logger := p.Lifecycle, p.Logger
	var sweepers []mem.Sweeper
	for _, c := range []any{p.Routes, p.Geocodes} {
		if s, ok := c.(mem.Sweeper); ok {
			sweepers = append(sweepers, s)
		}
	}
	if len(sweepers) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				mem.SweepEvery(ctx, cacheSweepInterval, logger, sweepers...)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

// ProvideLLMClient creates the LLM client selected by LLM_PROVIDER
func ProvideLLMClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (utils.LLMClientInterface, error) {
	var client utils.LLMClientInterface

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required when using OpenAI provider", utils.ErrProviderNotConfigured)
		}
		client = utils.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is required when using Gemini provider", utils.ErrProviderNotConfigured)
		}
		gemini, err := utils.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		client = gemini
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s. Use 'openai' or 'gemini'", cfg.LLMProvider)
	}

	logger.Info("LLM client ready", zap.String("provider", cfg.LLMProvider))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func ProvideMapboxConfig(cfg *config.Config) services.MapboxConfig {
	return services.MapboxConfig{
		AccessToken:       cfg.MapboxToken,
		BaseURL:           cfg.MapboxBaseURL,
		Profile:           cfg.RoutingProfile,
		CacheTTL:          cfg.GeocodeCacheTTL,
		RequestsPerSecond: cfg.MapboxRPS,
	}
}

func ProvideGeocoder(mb services.MapboxConfig, cache mem.GeocodeCache, logger *zap.Logger) (planner.Geocoder, error) {
	return services.NewMapboxGeocodingService(mb, cache, logger)
}

func ProvideRouteCalculator(mb services.MapboxConfig, logger *zap.Logger) (planner.RouteCalculator, error) {
	return services.NewMapboxDirectionsService(mb, logger)
}

func ProvidePointsOfInterestGenerator(llm utils.LLMClientInterface, logger *zap.Logger) planner.PointsOfInterestGenerator {
	return services.NewLLMPointsOfInterestService(llm, logger)
}

func ProvideTransportModeAdvisor(llm utils.LLMClientInterface, logger *zap.Logger) planner.TransportModeAdvisor {
	return services.NewLLMTransportModeService(llm, logger)
}

// ProvideLodgingSearcher ends the MCP session on shutdown.
func ProvideLodgingSearcher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (planner.LodgingSearcher, error) {
	svc, err := services.NewAirbnbLodgingService(cfg.LodgingMCPURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: svc.Close,
	})
	return svc, nil
}
