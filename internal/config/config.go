// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string
	Port   string

	PostgresURL string
	RedisURL    string
	JWTSecret   string

	MapboxToken     string
	MapboxBaseURL   string
	RoutingProfile  string
	GeocodeCacheTTL time.Duration
	MapboxRPS       float64

	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	LodgingMCPURL string

	PlannerTimeout     time.Duration
	StrictErrors       bool
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSOrigins        []string
}

// Load reads .env when present and then the process environment. Variables
// already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnvWithDefault("APP_ENV", "production"),
		Port:           getEnvWithDefault("PORT", "8080"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MapboxToken:    os.Getenv("MAPBOX_ACCESS_TOKEN"),
		MapboxBaseURL:  getEnvWithDefault("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		RoutingProfile: getEnvWithDefault("ROUTING_PROFILE", "walking"),
		LLMProvider:    strings.ToLower(getEnvWithDefault("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		LodgingMCPURL:  os.Getenv("LODGING_MCP_URL"),
		CORSOrigins:    splitList(getEnvWithDefault("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.GeocodeCacheTTL, err = getDuration("GEOCODE_CACHE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MapboxRPS, err = getFloat("MAPBOX_RPS", 10); err != nil {
		return nil, err
	}
	timeoutMs, err := getInt("PLANNER_TIMEOUT_MS", 60000)
	if err != nil {
		return nil, err
	}
	cfg.PlannerTimeout = time.Duration(timeoutMs) * time.Millisecond
	if cfg.StrictErrors, err = getBool("PLANNER_STRICT_ERRORS", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q, use 'gemini' or 'openai'", cfg.LLMProvider)
	}
	if cfg.PlannerTimeout <= 0 {
		return nil, fmt.Errorf("PLANNER_TIMEOUT_MS must be positive")
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// NewLogger builds the process logger and installs it as zap's global.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
