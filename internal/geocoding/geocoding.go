package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const DefaultBaseURL = "https://maps.googleapis.com"

var (
	ErrInvalidZIP    = errors.New("invalid ZIP code format")
	ErrNoResults     = errors.New("no geocoding results found for ZIP code")
	ErrMissingAPIKey = errors.New("google maps API key not configured")
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Result is a geocoded ZIP code.
type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Geocoder resolves a ZIP code to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, zipCode string) (*Result, error)
}

type googleResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GoogleGeocoder calls the Google Maps Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*GoogleGeocoder)

func WithBaseURL(baseURL string) Option {
	return func(g *GoogleGeocoder) { g.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) Option {
	return func(g *GoogleGeocoder) { g.httpClient = client }
}

func NewGoogleGeocoder(apiKey string, timeout time.Duration, opts ...Option) *GoogleGeocoder {
	g := &GoogleGeocoder{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves a five-digit US ZIP code.
func (g *GoogleGeocoder) Geocode(ctx context.Context, zipCode string) (*Result, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if !zipPattern.MatchString(zipCode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZIP, zipCode)
	}

	q := url.Values{}
	q.Set("address", zipCode)
	q.Set("key", g.apiKey)
	u := g.baseURL + "/maps/api/geocode/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var data googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if data.Status != "OK" {
		if data.ErrorMessage != "" {
			return nil, fmt.Errorf("geocoding error: %s (%s)", data.ErrorMessage, data.Status)
		}
		return nil, fmt.Errorf("%w: status %s", ErrNoResults, data.Status)
	}
	if len(data.Results) == 0 {
		return nil, ErrNoResults
	}

	first := data.Results[0]
	return &Result{
		Lat:         first.Geometry.Location.Lat,
		Lng:         first.Geometry.Location.Lng,
		DisplayName: first.FormattedAddress,
	}, nil
}
