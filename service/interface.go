package service

import (
	"context"
	"time"

	"weatherscope.app/models"
)

// LocationResolverInterface resolves free-text queries to ranked locations.
type LocationResolverInterface interface {
	Resolve(ctx context.Context, query string) ([]models.Location, error)
}

// WeatherAggregatorInterface fetches weather with provider fallback.
type WeatherAggregatorInterface interface {
	GetCurrentAndForecast(ctx context.Context, loc models.Location) (*models.WeatherBundle, error)
	GetHistory(ctx context.Context, loc models.Location) ([]models.HistoricalRecord, error)
}

// SearchRepositoryInterface defines the interface for search history operations.
type SearchRepositoryInterface interface {
	Record(query string, loc models.Location) (*models.SearchRecord, error)
	Recent(limit int) ([]models.SearchRecord, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// WeatherServiceInterface defines the interface for weather lookup operations.
type WeatherServiceInterface interface {
	ResolveLocations(ctx context.Context, query string) ([]models.Location, error)
	GetWeather(ctx context.Context, query string, loc models.Location) (*models.WeatherBundle, error)
	GetHistory(ctx context.Context, loc models.Location) ([]models.HistoricalRecord, error)
	RecentSearches(limit int) ([]models.SearchRecord, error)
}

// Ensure implementations satisfy interfaces
var _ WeatherServiceInterface = (*WeatherService)(nil)
