package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PLANNER_TIMEOUT_MS", "")
	t.Setenv("PLANNER_STRICT_ERRORS", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 60*time.Second, cfg.PlannerTimeout)
	assert.False(t, cfg.StrictErrors)
	assert.Equal(t, "walking", cfg.RoutingProfile)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("PLANNER_TIMEOUT_MS", "1500")
	t.Setenv("PLANNER_STRICT_ERRORS", "true")
	t.Setenv("GEOCODE_CACHE_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 1500*time.Millisecond, cfg.PlannerTimeout)
	assert.True(t, cfg.StrictErrors)
	assert.Equal(t, 2*time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"LLM_PROVIDER":          "anthropic",
		"PLANNER_TIMEOUT_MS":    "soon",
		"PLANNER_STRICT_ERRORS": "maybe",
		"GEOCODE_CACHE_TTL":     "7days",
		"RATE_LIMIT_PER_MINUTE": "many",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}

	t.Run("zero timeout", func(t *testing.T) {
		t.Setenv("PLANNER_TIMEOUT_MS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{AppEnv: "development"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "development logs debug")

	logger, err = NewLogger(&Config{AppEnv: "production"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
