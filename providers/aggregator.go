package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"weatherscope.app/cache"
	"weatherscope.app/errors"
	"weatherscope.app/models"
)

// historyDays is the fixed window served by the secondary provider.
const historyDays = 7

// Aggregator orchestrates the primary-then-secondary fallback and guarantees
// source consistency: a returned bundle never mixes providers. Each provider
// is attempted exactly once per call - failures here are almost always
// sustained outages, so a retry loop would only add latency.
type Aggregator struct {
	primary         WeatherProvider
	secondary       HistoryProvider
	historyEntitled bool
	cache           cache.Cache
	weatherTTL      time.Duration
}

// NewAggregator builds the aggregator. secondary may be nil when no
// credential is configured; current/forecast then rely on the primary alone
// and history reports NO_CREDENTIAL.
func NewAggregator(primary WeatherProvider, secondary HistoryProvider, historyEntitled bool, store cache.Cache, weatherTTL time.Duration) *Aggregator {
	return &Aggregator{
		primary:         primary,
		secondary:       secondary,
		historyEntitled: historyEntitled,
		cache:           store,
		weatherTTL:      weatherTTL,
	}
}

// GetCurrentAndForecast returns current conditions plus tomorrow's forecast
// for loc, tagged with the provider that produced both. Bundles are cached
// briefly since current weather changes continuously.
func (a *Aggregator) GetCurrentAndForecast(ctx context.Context, loc models.Location) (*models.WeatherBundle, error) {
	cacheKey := weatherCacheKey(loc)

	var cached models.WeatherBundle
	if cache.GetJSON(ctx, a.cache, cacheKey, &cached) {
		slog.Debug("weather cache hit", "location", loc.DisplayName())
		return &cached, nil
	}

	bundle, primaryErr := a.fetchBundle(ctx, a.primary, models.SourcePrimary, loc)
	if primaryErr == nil {
		cache.SetJSON(ctx, a.cache, cacheKey, bundle, a.weatherTTL)
		return bundle, nil
	}

	slog.Warn("primary weather provider failed, falling back",
		"provider", a.primary.Name(), "location", loc.DisplayName(), "error", primaryErr)

	if a.secondary == nil {
		return nil, errors.NewAllProvidersUnavailableError(primaryErr,
			fmt.Errorf("secondary provider not configured"))
	}

	bundle, secondaryErr := a.fetchBundle(ctx, a.secondary, models.SourceSecondary, loc)
	if secondaryErr != nil {
		return nil, errors.NewAllProvidersUnavailableError(primaryErr, secondaryErr)
	}

	cache.SetJSON(ctx, a.cache, cacheKey, bundle, a.weatherTTL)
	return bundle, nil
}

// fetchBundle runs both calls against one provider. A failure of either call
// fails the bundle as a whole; partial mixed-provider results would break
// source consistency.
func (a *Aggregator) fetchBundle(ctx context.Context, provider WeatherProvider, source models.Source, loc models.Location) (*models.WeatherBundle, error) {
	current, err := provider.FetchCurrent(ctx, loc)
	if err != nil {
		return nil, err
	}

	forecast, err := provider.FetchForecastTomorrow(ctx, loc)
	if err != nil {
		return nil, err
	}

	return &models.WeatherBundle{
		Current:  current,
		Forecast: forecast,
		Source:   source,
	}, nil
}

// GetHistory returns the past week for loc, oldest first. History is always
// routed to the secondary provider; when it cannot be served the error names
// why, so callers can explain the gap instead of rendering an empty chart.
func (a *Aggregator) GetHistory(ctx context.Context, loc models.Location) ([]models.HistoricalRecord, error) {
	if a.secondary == nil {
		return nil, errors.NewHistoryUnavailableError(errors.HistoryReasonNoCredential,
			"no secondary provider credential configured", nil)
	}

	if !a.historyEntitled {
		return nil, errors.NewHistoryUnavailableError(errors.HistoryReasonNoEntitlement,
			"credential is not entitled to historical data", nil)
	}

	records, err := a.secondary.FetchHistory(ctx, loc, historyDays)
	if err != nil {
		if errors.IsHistoryUnavailableError(err) {
			return nil, err
		}
		return nil, errors.NewHistoryUnavailableError(errors.HistoryReasonProviderError,
			"historical data fetch failed", err)
	}

	return records, nil
}

func weatherCacheKey(loc models.Location) string {
	return fmt.Sprintf("weather:%.4f,%.4f", loc.Lat, loc.Lon)
}
