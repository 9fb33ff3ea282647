package pollen

import (
	"context"
	"fmt"
	"time"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/location"
	"github.com/pollenow/pollenow/internal/logging"
)

// ErrNoSavedLocation is returned when the user has no location with
// coordinates to forecast for.
var ErrNoSavedLocation = apperr.NotFound("No saved location found. Please save your location first.").
	WithCode(httputil.CodeSaveLocationRequired)

// LocationSource returns a user's saved location.
type LocationSource interface {
	Get(ctx context.Context, userID string) (*location.Location, error)
}

// Cache stores raw forecasts. Implemented by cache.RedisCache.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Service builds forecasts for a user's saved location.
type Service struct {
	locations LocationSource
	client    Client
	cache     Cache
	cacheTTL  time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

// NewService wires the forecast service. cache may be nil.
func NewService(locations LocationSource, client Client, cache Cache, cacheTTL time.Duration, logger *logging.Logger) *Service {
	return &Service{
		locations: locations,
		client:    client,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Forecast returns a formatted forecast of days days for the user's saved
// location.
func (s *Service) Forecast(ctx context.Context, userID string, days int) (*ForecastData, error) {
	if days < MinDays || days > MaxDays {
		return nil, apperr.Validation("Days parameter must be a number between 1 and 5")
	}

	loc, err := s.locations.Get(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, ErrNoSavedLocation
		}
		return nil, err
	}
	if !loc.HasCoordinates() {
		return nil, ErrNoSavedLocation
	}

	raw, cached, err := s.fetch(ctx, loc.Coordinates, days)
	if err != nil {
		return nil, err
	}

	formatted := Format(raw)

	var today *DayForecast
	if len(formatted.Days) > 0 {
		first := formatted.Days[0]
		today = &first
	}

	return &ForecastData{
		Location: ForecastLocation{
			ZipCode:     loc.ZipCode,
			Coordinates: loc.Coordinates,
		},
		Forecast:     formatted.Days,
		TodaySummary: today,
		Meta: ForecastMeta{
			RegionCode:    formatted.RegionCode,
			TotalDays:     formatted.TotalDays,
			DaysRequested: days,
			Timestamp:     s.now().UTC().Format(time.RFC3339Nano),
			Cached:        cached,
		},
	}, nil
}

func (s *Service) fetch(ctx context.Context, coords *location.Coordinates, days int) (*RawForecastResponse, bool, error) {
	key := cacheKey(coords, days, s.now())

	if s.cache != nil {
		var raw RawForecastResponse
		hit, err := s.cache.Get(ctx, key, &raw)
		if err != nil {
			s.logger.Warn("failed to read forecast cache", "key", key, "error", err.Error())
		} else if hit {
			return &raw, true, nil
		}
	}

	raw, err := s.client.GetForecast(ctx, coords.Lat, coords.Lng, days)
	if err != nil {
		return nil, false, apperr.Upstream(fmt.Sprintf("Failed to fetch pollen data: %v", err), err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.logger.Warn("failed to write forecast cache", "key", key, "error", err.Error())
		}
	}

	return raw, false, nil
}

// cacheKey rounds coordinates to about 10m and rolls over daily so a cached
// forecast never starts on yesterday.
func cacheKey(coords *location.Coordinates, days int, now time.Time) string {
	return fmt.Sprintf("forecast:%.4f:%.4f:%d:%s", coords.Lat, coords.Lng, days, now.UTC().Format(time.DateOnly))
}
