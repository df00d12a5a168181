package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"weatherscope.app/config"
	apperrors "weatherscope.app/errors"
	"weatherscope.app/models"
)

// owmBucket is the rate-limiting scope for the secondary source.
const owmBucket = "openweathermap"

// OpenWeatherProvider is the secondary source: a structured API keyed by
// coordinates with an API credential. Current and forecast sit on the free
// entitlement; day-summary history requires a paid one, and a rejected
// credential must surface as an entitlement condition rather than a generic
// failure.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter RateLimiter
	breaker *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg *config.OpenWeatherConfig, limiter RateLimiter) *OpenWeatherProvider {
	limiter.Configure(owmBucket, cfg.MinInterval)
	return &OpenWeatherProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		breaker: newBreaker(owmBucket),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return "openweathermap"
}

type owmCurrentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Weather    []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", p.baseURL, p.coordParams(loc).Encode())

	var resp owmCurrentResponse
	if err := p.get(ctx, endpoint, &resp); err != nil {
		return nil, apperrors.NewProviderUnavailableError(p.Name(), err)
	}

	condition := ""
	if len(resp.Weather) > 0 {
		condition = resp.Weather[0].Description
	}

	observedAt := time.Now().UTC()
	if resp.Dt > 0 {
		observedAt = time.Unix(resp.Dt, 0).UTC()
	}

	return &models.WeatherSnapshot{
		ObservedAt:     observedAt,
		TemperatureC:   resp.Main.Temp,
		FeelsLikeC:     resp.Main.FeelsLike,
		HumidityPct:    resp.Main.Humidity,
		WindKph:        resp.Wind.Speed * 3.6, // m/s to km/h
		PressureHpa:    resp.Main.Pressure,
		VisibilityKm:   float64(resp.Visibility) / 1000, // meters to km
		ConditionText:  condition,
		ConditionEmoji: ConditionEmoji(condition),
		Source:         models.SourceSecondary,
	}, nil
}

type owmForecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) FetchForecastTomorrow(ctx context.Context, loc models.Location) (*models.ForecastDay, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/forecast?%s", p.baseURL, p.coordParams(loc).Encode())

	var resp owmForecastResponse
	if err := p.get(ctx, endpoint, &resp); err != nil {
		return nil, apperrors.NewProviderUnavailableError(p.Name(), err)
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	forecast := &models.ForecastDay{
		Date:    tomorrow,
		Sunrise: time.Unix(resp.City.Sunrise, 0).UTC().Format("15:04"),
		Sunset:  time.Unix(resp.City.Sunset, 0).UTC().Format("15:04"),
	}

	for _, entry := range resp.List {
		// dt_txt is "2006-01-02 15:04:05" in UTC.
		stamp, err := time.Parse("2006-01-02 15:04:05", entry.DtTxt)
		if err != nil || stamp.Format("2006-01-02") != tomorrow {
			continue
		}

		forecast.Hours = append(forecast.Hours, models.ForecastHour{
			Hour:               stamp.Hour(),
			TempC:              entry.Main.Temp,
			FeelsLikeC:         entry.Main.FeelsLike,
			RainProbabilityPct: int(entry.Pop * 100),
		})
	}

	if len(forecast.Hours) == 0 {
		return nil, apperrors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("forecast response has no entries for %s", tomorrow))
	}

	return forecast, nil
}

type owmDaySummaryResponse struct {
	Date        string `json:"date"`
	Temperature struct {
		Min       float64 `json:"min"`
		Max       float64 `json:"max"`
		Afternoon float64 `json:"afternoon"`
	} `json:"temperature"`
	Humidity struct {
		Afternoon float64 `json:"afternoon"`
	} `json:"humidity"`
}

// FetchHistory retrieves one day-summary per day, oldest first. A 401/403
// from the day-summary endpoint means the credential lacks the paid history
// entitlement; the aggregator distinguishes that from an outage.
func (p *OpenWeatherProvider) FetchHistory(ctx context.Context, loc models.Location, days int) ([]models.HistoricalRecord, error) {
	records := make([]models.HistoricalRecord, 0, days)

	for offset := days; offset >= 1; offset-- {
		date := time.Now().UTC().AddDate(0, 0, -offset).Format("2006-01-02")

		params := p.coordParams(loc)
		params.Set("date", date)
		endpoint := fmt.Sprintf("%s/data/3.0/onecall/day_summary?%s", p.baseURL, params.Encode())

		var resp owmDaySummaryResponse
		if err := p.get(ctx, endpoint, &resp); err != nil {
			var status *statusError
			if errors.As(err, &status) && (status.Code == http.StatusUnauthorized || status.Code == http.StatusForbidden) {
				return nil, apperrors.NewHistoryUnavailableError(apperrors.HistoryReasonNoEntitlement,
					"credential rejected for historical data", err)
			}
			return nil, apperrors.NewProviderUnavailableError(p.Name(), err)
		}

		records = append(records, models.HistoricalRecord{
			Date:        date,
			AvgTempC:    (resp.Temperature.Min + resp.Temperature.Max) / 2,
			MaxTempC:    resp.Temperature.Max,
			MinTempC:    resp.Temperature.Min,
			HumidityPct: int(resp.Humidity.Afternoon),
		})
	}

	return records, nil
}

func (p *OpenWeatherProvider) coordParams(loc models.Location) url.Values {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", loc.Lat))
	params.Set("lon", fmt.Sprintf("%f", loc.Lon))
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")
	return params
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, target interface{}) error {
	if err := p.limiter.Acquire(ctx, owmBucket); err != nil {
		return err
	}
	return getJSON(ctx, p.client, p.breaker, endpoint, nil, target)
}
