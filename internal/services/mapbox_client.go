package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

type MapboxConfig struct {
	AccessToken string
	BaseURL     string
	// Profile is the directions routing profile, e.g. "walking" or "driving".
	Profile  string
	CacheTTL time.Duration
	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64
}

// mapboxClient holds the transport shared by the geocoding and directions
// services.
type mapboxClient struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
	limiter     *rate.Limiter
}

func newMapboxClient(cfg MapboxConfig) (*mapboxClient, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN is empty")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultMapboxBaseURL
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	return &mapboxClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		AccessToken: cfg.AccessToken,
		BaseURL:     base,
		limiter:     limiter,
	}, nil
}

// getJSON issues a GET for path (already escaped) and decodes the body into out.
func (c *mapboxClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("mapbox rate limit: %w", err)
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("mapbox base url: %w", err)
	}
	u.RawPath = path
	u.Path, _ = url.PathUnescape(path)
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("mapbox http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mapbox bad status: %s: %s", resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mapbox decode: %w", err)
	}
	return nil
}
