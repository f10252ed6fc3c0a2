package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

type LLMTransportModeService struct {
	llm    utils.LLMClientInterface
	logger *zap.Logger
}

func NewLLMTransportModeService(llm utils.LLMClientInterface, logger *zap.Logger) planner.TransportModeAdvisor {
	return &LLMTransportModeService{
		llm:    llm,
		logger: logger.With(zap.String("component", "transport_mode")),
	}
}

type transportModeResponse struct {
	Mode      string `json:"mode"`
	Reasoning string `json:"reasoning"`
}

func (s *LLMTransportModeService) DetermineTransportMode(ctx context.Context, origin, destination string, distanceKm float64) (*plan_models.TransportRecommendation, error) {
	prompt := fmt.Sprintf(`
A traveller is going from %s to %s, a straight-line distance of %.0f km.
Pick the single most practical primary way to travel.
Return **JSON only**: {"mode": "plane|train|bus|car|ferry|combination", "reasoning": "one or two sentences"}
`, origin, destination, distanceKm)

	content, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var resp transportModeResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("decode transport mode: %w", err)
	}
	mode, err := plan_models.ParseTransportMode(resp.Mode)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("transport mode suggested", zap.String("mode", string(mode)), zap.Float64("distance_km", distanceKm))
	return &plan_models.TransportRecommendation{Mode: mode, Reasoning: resp.Reasoning}, nil
}
