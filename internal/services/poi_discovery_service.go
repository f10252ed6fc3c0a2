package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/internal/planner"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

type LLMPointsOfInterestService struct {
	llm    utils.LLMClientInterface
	logger *zap.Logger
}

func NewLLMPointsOfInterestService(llm utils.LLMClientInterface, logger *zap.Logger) planner.PointsOfInterestGenerator {
	return &LLMPointsOfInterestService{
		llm:    llm,
		logger: logger.With(zap.String("component", "poi_discovery")),
	}
}

type poiResponse struct {
	PointsOfInterest []plan_models.POI `json:"pointsOfInterest"`
}

func (s *LLMPointsOfInterestService) DiscoverPointsOfInterest(ctx context.Context, req plan_models.POIRequest) ([]plan_models.POI, error) {
	prompt := buildPOIPrompt(req)

	content, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	pois, err := parsePOIResponse(content)
	if err != nil {
		return nil, err
	}

	valid := make([]plan_models.POI, 0, len(pois))
	for _, p := range pois {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" || !p.Coordinates().Valid() || (p.Lat == 0 && p.Lng == 0) {
			s.logger.Debug("dropping unusable poi", zap.String("name", p.Name), zap.Float64("lat", p.Lat), zap.Float64("lng", p.Lng))
			continue
		}
		if p.Category == "" {
			p.Category = "attraction"
		}
		valid = append(valid, p)
	}
	if req.TargetCount > 0 && len(valid) > req.TargetCount {
		valid = valid[:req.TargetCount]
	}
	return valid, nil
}

// parsePOIResponse accepts either {"pointsOfInterest": [...]} or a bare array.
func parsePOIResponse(content string) ([]plan_models.POI, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		var pois []plan_models.POI
		if err := json.Unmarshal([]byte(trimmed), &pois); err != nil {
			return nil, fmt.Errorf("decode points of interest: %w", err)
		}
		return pois, nil
	}

	var resp poiResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return nil, fmt.Errorf("decode points of interest: %w", err)
	}
	return resp.PointsOfInterest, nil
}

func buildPOIPrompt(req plan_models.POIRequest) string {
	days := planner.DaysBetween(req.StartDate, req.EndDate)
	return fmt.Sprintf(`
You are recommending points of interest for a %d-day trip to %s, from %s to %s.
Return **JSON only** matching this schema:

{
  "pointsOfInterest": [
    {"name": "string", "description": "one sentence", "lat": 0.0, "lng": 0.0, "category": "museum|landmark|park|neighborhood|food|viewpoint|other"}
  ]
}

Hard constraints:
- Exactly %d entries, most iconic first.
- Real places inside or very near %s with accurate WGS84 coordinates.
- Mix categories when possible; no duplicates.

Return JSON only. No comments, no markdown.
`, days, req.Destination, utils.FormatDate(req.StartDate), utils.FormatDate(req.EndDate), req.TargetCount, req.Destination)
}
