package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pollenow/pollenow/cmd/pollenow/settings"
	"github.com/pollenow/pollenow/cmd/pollenow/ui"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/geocoding"
	"github.com/pollenow/pollenow/internal/pollen"
)

const forecastCacheTTL = time.Hour

var errNoZIP = errors.New("no ZIP code provided\nUsage: pollenow [ZIP]\nOr set a default: pollenow config set default_zip 94025")

// cachedForecast is what the CLI keeps in its cache.
type cachedForecast struct {
	Place    string           `json:"place"`
	Forecast *pollen.Forecast `json:"forecast"`
	CachedAt time.Time        `json:"cachedAt"`
}

// forecaster resolves a ZIP to a formatted forecast, consulting the cache
// first.
type forecaster struct {
	geocoder geocoding.Geocoder
	client   pollen.Client
	cache    pollen.Cache
	now      func() time.Time
}

func (f *forecaster) lookup(ctx context.Context, zip string, days int) (*ui.Result, error) {
	now := f.now()
	key := forecastCacheKey(zip, days, now)

	if f.cache != nil {
		var c cachedForecast
		if hit, err := f.cache.Get(ctx, key, &c); err == nil && hit && c.Forecast != nil {
			return &ui.Result{Place: c.Place, Forecast: c.Forecast, Cached: true, CacheAge: now.Sub(c.CachedAt)}, nil
		}
	}

	place, err := f.geocoder.Geocode(ctx, zip)
	if err != nil {
		if errors.Is(err, geocoding.ErrInvalidZIP) {
			return nil, fmt.Errorf("invalid ZIP code %q, please enter a 5-digit US ZIP code", zip)
		}
		return nil, fmt.Errorf("failed to geocode %s: %w", zip, err)
	}

	raw, err := f.client.GetForecast(ctx, place.Lat, place.Lng, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pollen forecast: %w", err)
	}

	label := place.DisplayName
	if label == "" {
		label = zip
	}
	entry := cachedForecast{Place: label, Forecast: pollen.Format(raw), CachedAt: now}

	if f.cache != nil {
		// a failed write only costs the next run a fetch
		_ = f.cache.Set(ctx, key, entry, forecastCacheTTL)
	}

	return &ui.Result{Place: entry.Place, Forecast: entry.Forecast}, nil
}

func forecastCacheKey(zip string, days int, now time.Time) string {
	return fmt.Sprintf("forecast:%s:%d:%s", zip, days, now.Format("2006-01-02"))
}

// resolveZIP picks the argument, then the configured default.
func resolveZIP(args []string, s *settings.Settings) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if s.DefaultZIP != "" {
		return s.DefaultZIP, nil
	}
	return "", errNoZIP
}

// resolveDays picks --today, then --days, then the configured value.
func resolveDays(flagDays int, today bool, s *settings.Settings) (int, error) {
	switch {
	case today:
		return 1, nil
	case flagDays != 0:
		if flagDays < pollen.MinDays || flagDays > pollen.MaxDays {
			return 0, settings.ErrInvalidDay
		}
		return flagDays, nil
	case s.Days != 0:
		return s.Days, nil
	default:
		return settings.DefaultDays, nil
	}
}

// resolveAPIKey prefers the CLI settings (including POLLENOW_API_KEY) and
// falls back to the server's GOOGLE_MAPS_API_KEY.
func resolveAPIKey(s *settings.Settings, google config.GoogleConfig) (string, error) {
	if s.APIKey != "" {
		return s.APIKey, nil
	}
	if google.APIKey != "" {
		return google.APIKey, nil
	}
	return "", fmt.Errorf("%w\nRun: pollenow config set api_key YOUR_KEY\nOr set %s", settings.ErrNoAPIKey, settings.APIKeyEnv)
}
