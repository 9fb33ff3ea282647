package pollen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://pollen.googleapis.com"
	MinDays        = 1
	MaxDays        = 5
)

var (
	ErrMissingAPIKey = errors.New("google maps API key not configured")
	ErrInvalidDays   = errors.New("days must be between 1 and 5")
	ErrAPIRequest    = errors.New("pollen API request failed")
)

// Client fetches raw forecasts.
type Client interface {
	GetForecast(ctx context.Context, lat, lng float64, days int) (*RawForecastResponse, error)
}

// GoogleClient calls the Google Pollen API.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*GoogleClient)

func WithBaseURL(baseURL string) Option {
	return func(c *GoogleClient) { c.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *GoogleClient) { c.httpClient = client }
}

func NewGoogleClient(apiKey string, timeout time.Duration, opts ...Option) *GoogleClient {
	c := &GoogleClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GoogleClient) GetForecast(ctx context.Context, lat, lng float64, days int) (*RawForecastResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if days < MinDays || days > MaxDays {
		return nil, ErrInvalidDays
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("days", strconv.Itoa(days))
	q.Set("plantsDescription", "true")
	q.Set("languageCode", "en")
	u := c.baseURL + "/v1/forecast:lookup?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pollen request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollen request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAPIRequest, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrAPIRequest, resp.StatusCode)
	}

	var data RawForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse pollen response: %w", err)
	}

	return &data, nil
}
