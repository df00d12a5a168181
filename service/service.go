// Package service contains business logic orchestrating location
// resolution, weather acquisition, and search history.
package service

import (
	"context"
	"log/slog"

	"weatherscope.app/errors"
	"weatherscope.app/models"
	"weatherscope.app/pkg/validation"
)

// defaultRecentLimit bounds the search-history listing when the caller
// does not ask for a specific size.
const defaultRecentLimit = 20

// WeatherService handles weather lookup operations end to end.
type WeatherService struct {
	resolver   LocationResolverInterface
	aggregator WeatherAggregatorInterface
	searches   SearchRepositoryInterface
}

// NewWeatherService creates a new weather service.
func NewWeatherService(
	resolver LocationResolverInterface,
	aggregator WeatherAggregatorInterface,
	searches SearchRepositoryInterface,
) *WeatherService {
	return &WeatherService{
		resolver:   resolver,
		aggregator: aggregator,
		searches:   searches,
	}
}

// ResolveLocations returns ranked location candidates for a free-text query.
func (s *WeatherService) ResolveLocations(ctx context.Context, query string) ([]models.Location, error) {
	locations, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	slog.Debug("resolved locations", "query", query, "candidates", len(locations))
	return locations, nil
}

// GetWeather fetches current conditions and tomorrow's forecast for a
// resolved location and records the lookup in search history. A history
// write failure does not fail the lookup.
func (s *WeatherService) GetWeather(ctx context.Context, query string, loc models.Location) (*models.WeatherBundle, error) {
	if err := validateLocation(loc); err != nil {
		return nil, err
	}

	bundle, err := s.aggregator.GetCurrentAndForecast(ctx, loc)
	if err != nil {
		return nil, err
	}

	if query == "" {
		query = loc.Name
	}
	if _, err := s.searches.Record(query, loc); err != nil {
		slog.Warn("failed to record search", "query", query, "error", err)
	}

	return bundle, nil
}

// GetHistory fetches the trailing daily summaries for a resolved location.
func (s *WeatherService) GetHistory(ctx context.Context, loc models.Location) ([]models.HistoricalRecord, error) {
	if err := validateLocation(loc); err != nil {
		return nil, err
	}
	return s.aggregator.GetHistory(ctx, loc)
}

func validateLocation(loc models.Location) error {
	if !validation.IsNotEmpty(loc.Name) {
		return errors.NewValidationError("location name is required")
	}
	if !validation.ValidCoordinates(loc.Lat, loc.Lon) {
		return errors.NewValidationError("coordinates are out of range")
	}
	return nil
}

// RecentSearches lists the newest recorded lookups.
func (s *WeatherService) RecentSearches(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.searches.Recent(limit)
}
