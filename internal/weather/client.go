// Package weather implements a live weather lookup against the
// OpenWeatherMap current-weather API. It satisfies skill.Forecaster; the
// weather skill falls back to canned data whenever this client errors.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/luminalabs/concierge/internal/skill"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	requestTimeout = 5 * time.Second

	// Free-tier quota is 60 calls/min; stay comfortably under it.
	requestsPerSecond = 0.8
	requestBurst      = 5
)

// Client calls the OpenWeatherMap API. Safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a weather client with the given API key.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the subset of the OpenWeatherMap payload we use.
type apiResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current implements skill.Forecaster.
func (c *Client) Current(ctx context.Context, location string) (skill.Conditions, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return skill.Conditions{}, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return skill.Conditions{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return skill.Conditions{}, fmt.Errorf("fetching weather for %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return skill.Conditions{}, fmt.Errorf("weather API returned status %d for %q", resp.StatusCode, location)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return skill.Conditions{}, fmt.Errorf("decoding weather response: %w", err)
	}

	cond := skill.Conditions{
		Location:  body.Name,
		TempC:     body.Main.Temp,
		Humidity:  body.Main.Humidity,
		WindSpeed: body.Wind.Speed,
	}
	if cond.Location == "" {
		cond.Location = location
	}
	if len(body.Weather) > 0 {
		cond.Description = body.Weather[0].Description
	}

	c.logger.Debug("live weather lookup", "location", location, "temp_c", cond.TempC)
	return cond, nil
}
