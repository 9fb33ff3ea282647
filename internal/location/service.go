package location

import (
	"context"
	"errors"
	"strings"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/geocoding"
	"github.com/pollenow/pollenow/internal/logging"
)

// Service manages each user's saved location.
type Service struct {
	repo     Repository
	geocoder geocoding.Geocoder
	logger   *logging.Logger
}

func NewService(repo Repository, geocoder geocoding.Geocoder, logger *logging.Logger) *Service {
	return &Service{repo: repo, geocoder: geocoder, logger: logger}
}

// Save creates or replaces the user's location. Without coordinates the ZIP
// is geocoded; a geocoding failure is logged and the location is saved
// without coordinates.
func (s *Service) Save(ctx context.Context, userID, zipCode string, coords *Coordinates) (*Location, error) {
	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		return nil, apperr.Validation("Missing required fields: zipCode")
	}

	if coords == nil && s.geocoder != nil {
		res, err := s.geocoder.Geocode(ctx, zipCode)
		if err != nil {
			s.logger.Warn("failed to geocode zip code, saving without coordinates",
				"user_id", userID, "zip_code", zipCode, "error", err.Error())
		} else {
			coords = &Coordinates{Lat: res.Lat, Lng: res.Lng}
		}
	}

	loc, err := s.repo.Upsert(ctx, userID, zipCode, coords)
	if err != nil {
		return nil, apperr.Internal("failed to save location", err)
	}
	return loc, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Location, error) {
	loc, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Location not found")
		}
		return nil, apperr.Internal("failed to get location", err)
	}
	return loc, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Location not found")
		}
		return apperr.Internal("failed to delete location", err)
	}
	return nil
}
