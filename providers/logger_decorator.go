package providers

import (
	"context"
	"log/slog"
	"time"

	"weatherscope.app/models"
)

// LoggerDecorator wraps a provider with structured request/response logging.
type LoggerDecorator struct {
	wrapped WeatherProvider
}

func NewLoggerDecorator(provider WeatherProvider) *LoggerDecorator {
	return &LoggerDecorator{wrapped: provider}
}

func (d *LoggerDecorator) Name() string {
	return d.wrapped.Name()
}

func (d *LoggerDecorator) FetchCurrent(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error) {
	start := time.Now()
	snapshot, err := d.wrapped.FetchCurrent(ctx, loc)
	d.log("current", loc, err, time.Since(start))
	return snapshot, err
}

func (d *LoggerDecorator) FetchForecastTomorrow(ctx context.Context, loc models.Location) (*models.ForecastDay, error) {
	start := time.Now()
	forecast, err := d.wrapped.FetchForecastTomorrow(ctx, loc)
	d.log("forecast", loc, err, time.Since(start))
	return forecast, err
}

// HistoryLoggerDecorator additionally logs history fetches for providers
// that support them.
type HistoryLoggerDecorator struct {
	LoggerDecorator
	wrapped HistoryProvider
}

func NewHistoryLoggerDecorator(provider HistoryProvider) *HistoryLoggerDecorator {
	return &HistoryLoggerDecorator{
		LoggerDecorator: LoggerDecorator{wrapped: provider},
		wrapped:         provider,
	}
}

func (d *HistoryLoggerDecorator) FetchHistory(ctx context.Context, loc models.Location, days int) ([]models.HistoricalRecord, error) {
	start := time.Now()
	records, err := d.wrapped.FetchHistory(ctx, loc, days)
	d.log("history", loc, err, time.Since(start))
	return records, err
}

func (d *LoggerDecorator) log(operation string, loc models.Location, err error, duration time.Duration) {
	if err != nil {
		slog.Warn("provider call failed",
			"provider", d.wrapped.Name(),
			"operation", operation,
			"location", loc.DisplayName(),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return
	}

	slog.Debug("provider call succeeded",
		"provider", d.wrapped.Name(),
		"operation", operation,
		"location", loc.DisplayName(),
		"duration_ms", duration.Milliseconds())
}
