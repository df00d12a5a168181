package providers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherscope.app/cache"
	apperrors "weatherscope.app/errors"
	"weatherscope.app/models"
)

// stubProvider counts calls and fails on demand.
type stubProvider struct {
	name          string
	source        models.Source
	failCurrent   bool
	failForecast  bool
	historyErr    error
	currentCalls  int
	forecastCalls int
	historyCalls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchCurrent(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error) {
	s.currentCalls++
	if s.failCurrent {
		return nil, apperrors.NewProviderUnavailableError(s.name, fmt.Errorf("%s current down", s.name))
	}
	return &models.WeatherSnapshot{TemperatureC: 20, ConditionText: "Sunny", Source: s.source}, nil
}

func (s *stubProvider) FetchForecastTomorrow(ctx context.Context, loc models.Location) (*models.ForecastDay, error) {
	s.forecastCalls++
	if s.failForecast {
		return nil, apperrors.NewProviderUnavailableError(s.name, fmt.Errorf("%s forecast down", s.name))
	}
	return &models.ForecastDay{Date: "2026-08-27"}, nil
}

func (s *stubProvider) FetchHistory(ctx context.Context, loc models.Location, days int) ([]models.HistoricalRecord, error) {
	s.historyCalls++
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	records := make([]models.HistoricalRecord, days)
	for i := range records {
		records[i] = models.HistoricalRecord{Date: fmt.Sprintf("2026-08-%02d", 19+i)}
	}
	return records, nil
}

func newTestAggregator(t *testing.T, primary *stubProvider, secondary *stubProvider, entitled bool) *Aggregator {
	t.Helper()
	store := cache.NewMemoryCache()
	t.Cleanup(store.Stop)

	var history HistoryProvider
	if secondary != nil {
		history = secondary
	}
	return NewAggregator(primary, history, entitled, store, time.Minute)
}

func TestAggregator_PrimarySucceedsSecondaryNeverInvoked(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	secondary := &stubProvider{name: "secondary", source: models.SourceSecondary}
	agg := newTestAggregator(t, primary, secondary, true)

	bundle, err := agg.GetCurrentAndForecast(context.Background(), testLocation)
	require.NoError(t, err)

	assert.Equal(t, models.SourcePrimary, bundle.Source)
	assert.Equal(t, 0, secondary.currentCalls)
	assert.Equal(t, 0, secondary.forecastCalls)
}

func TestAggregator_FallsBackToSecondary(t *testing.T) {
	tests := []struct {
		name    string
		primary *stubProvider
	}{
		{"CurrentFails", &stubProvider{name: "primary", source: models.SourcePrimary, failCurrent: true}},
		{"ForecastFails", &stubProvider{name: "primary", source: models.SourcePrimary, failForecast: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := &stubProvider{name: "secondary", source: models.SourceSecondary}
			agg := newTestAggregator(t, tt.primary, secondary, true)

			bundle, err := agg.GetCurrentAndForecast(context.Background(), testLocation)
			require.NoError(t, err)

			// Both members come from the fallback provider, never mixed.
			assert.Equal(t, models.SourceSecondary, bundle.Source)
			assert.Equal(t, models.SourceSecondary, bundle.Current.Source)
			assert.Equal(t, 1, secondary.currentCalls)
			assert.Equal(t, 1, secondary.forecastCalls)
		})
	}
}

func TestAggregator_BothFailSurfacesBothCauses(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary, failCurrent: true}
	secondary := &stubProvider{name: "secondary", source: models.SourceSecondary, failCurrent: true}
	agg := newTestAggregator(t, primary, secondary, true)

	bundle, err := agg.GetCurrentAndForecast(context.Background(), testLocation)
	assert.Nil(t, bundle)
	require.True(t, apperrors.IsAllProvidersUnavailableError(err))

	appErr := err.(*apperrors.AppError)
	assert.Contains(t, appErr.PrimaryCause.Error(), "primary current down")
	assert.Contains(t, appErr.SecondaryCause.Error(), "secondary current down")

	// Exactly one attempt per provider, no retry loop.
	assert.Equal(t, 1, primary.currentCalls)
	assert.Equal(t, 1, secondary.currentCalls)
}

func TestAggregator_NoSecondaryConfigured(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary, failCurrent: true}
	agg := newTestAggregator(t, primary, nil, false)

	_, err := agg.GetCurrentAndForecast(context.Background(), testLocation)
	require.True(t, apperrors.IsAllProvidersUnavailableError(err))

	appErr := err.(*apperrors.AppError)
	assert.Contains(t, appErr.SecondaryCause.Error(), "not configured")
}

func TestAggregator_BundleCachedWithinTTL(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	agg := newTestAggregator(t, primary, nil, false)
	ctx := context.Background()

	first, err := agg.GetCurrentAndForecast(ctx, testLocation)
	require.NoError(t, err)
	second, err := agg.GetCurrentAndForecast(ctx, testLocation)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, primary.currentCalls)
	assert.Equal(t, 1, primary.forecastCalls)
}

func TestAggregator_HistoryWithoutCredential(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	agg := newTestAggregator(t, primary, nil, false)

	records, err := agg.GetHistory(context.Background(), testLocation)
	assert.Nil(t, records)
	require.True(t, apperrors.IsHistoryUnavailableError(err))
	assert.Equal(t, apperrors.HistoryReasonNoCredential, apperrors.HistoryReasonOf(err))
}

func TestAggregator_HistoryWithoutEntitlement(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	secondary := &stubProvider{name: "secondary", source: models.SourceSecondary}
	agg := newTestAggregator(t, primary, secondary, false)

	_, err := agg.GetHistory(context.Background(), testLocation)
	require.True(t, apperrors.IsHistoryUnavailableError(err))
	assert.Equal(t, apperrors.HistoryReasonNoEntitlement, apperrors.HistoryReasonOf(err))

	// Gated locally, no network attempt.
	assert.Equal(t, 0, secondary.historyCalls)
}

func TestAggregator_HistorySuccess(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	secondary := &stubProvider{name: "secondary", source: models.SourceSecondary}
	agg := newTestAggregator(t, primary, secondary, true)

	records, err := agg.GetHistory(context.Background(), testLocation)
	require.NoError(t, err)
	assert.Len(t, records, 7)
	assert.Equal(t, 1, secondary.historyCalls)
	// Primary plays no part in history.
	assert.Equal(t, 0, primary.historyCalls)
}

func TestAggregator_HistoryProviderErrorWrapped(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	secondary := &stubProvider{
		name:       "secondary",
		source:     models.SourceSecondary,
		historyErr: apperrors.NewProviderUnavailableError("secondary", fmt.Errorf("boom")),
	}
	agg := newTestAggregator(t, primary, secondary, true)

	_, err := agg.GetHistory(context.Background(), testLocation)
	require.True(t, apperrors.IsHistoryUnavailableError(err))
	assert.Equal(t, apperrors.HistoryReasonProviderError, apperrors.HistoryReasonOf(err))
}

func TestAggregator_HistoryEntitlementRejectionPassedThrough(t *testing.T) {
	primary := &stubProvider{name: "primary", source: models.SourcePrimary}
	secondary := &stubProvider{
		name:   "secondary",
		source: models.SourceSecondary,
		historyErr: apperrors.NewHistoryUnavailableError(
			apperrors.HistoryReasonNoEntitlement, "credential rejected for historical data", nil),
	}
	agg := newTestAggregator(t, primary, secondary, true)

	_, err := agg.GetHistory(context.Background(), testLocation)
	require.True(t, apperrors.IsHistoryUnavailableError(err))
	assert.Equal(t, apperrors.HistoryReasonNoEntitlement, apperrors.HistoryReasonOf(err))
}
