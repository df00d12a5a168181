package providers

import (
	"context"
	"time"

	"weatherscope.app/models"
)

// WeatherProvider is the capability set shared by both upstream sources.
// Implementations normalize their native response shapes into the models
// entities and convert every transport or parse failure into a
// ProviderUnavailable error at this boundary.
type WeatherProvider interface {
	FetchCurrent(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error)
	FetchForecastTomorrow(ctx context.Context, loc models.Location) (*models.ForecastDay, error)
	Name() string
}

// HistoryProvider extends WeatherProvider with past-weather retrieval. Only
// the secondary source offers it, gated by a paid entitlement.
type HistoryProvider interface {
	WeatherProvider
	FetchHistory(ctx context.Context, loc models.Location, days int) ([]models.HistoricalRecord, error)
}

// RateLimiter is the slice of the shared limiter the providers need. Each
// provider registers its own bucket interval at construction.
type RateLimiter interface {
	Acquire(ctx context.Context, bucket string) error
	Configure(bucket string, interval time.Duration)
}
