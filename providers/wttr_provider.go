package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"weatherscope.app/config"
	"weatherscope.app/errors"
	"weatherscope.app/models"
)

// wttrBucket is the rate-limiting scope for the primary source.
const wttrBucket = "wttr"

// WttrProvider is the primary source: wttr.in serves a human-oriented feed
// without authentication. Its `format=j1` payload carries every value as a
// string and its grammar drifts over time, so all parsing stays inside this
// file; unparsable individual fields degrade to zero values while a missing
// document structure fails the whole call.
type WttrProvider struct {
	baseURL string
	client  *http.Client
	limiter RateLimiter
	breaker *gobreaker.CircuitBreaker
}

func NewWttrProvider(cfg *config.WttrConfig, limiter RateLimiter) *WttrProvider {
	limiter.Configure(wttrBucket, cfg.MinInterval)
	return &WttrProvider{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		breaker: newBreaker(wttrBucket),
	}
}

func (p *WttrProvider) Name() string {
	return "wttr.in"
}

// wttrReport is the subset of the j1 document the provider consumes.
type wttrReport struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		Humidity    string `json:"humidity"`
		WindKmph    string `json:"windspeedKmph"`
		Pressure    string `json:"pressure"`
		Visibility  string `json:"visibility"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		Date      string `json:"date"`
		Astronomy []struct {
			Sunrise   string `json:"sunrise"`
			Sunset    string `json:"sunset"`
			MoonPhase string `json:"moon_phase"`
		} `json:"astronomy"`
		Hourly []struct {
			Time         string `json:"time"`
			TempC        string `json:"tempC"`
			FeelsLikeC   string `json:"FeelsLikeC"`
			ChanceOfRain string `json:"chanceofrain"`
		} `json:"hourly"`
	} `json:"weather"`
}

func (p *WttrProvider) FetchCurrent(ctx context.Context, loc models.Location) (*models.WeatherSnapshot, error) {
	report, err := p.fetchReport(ctx, loc)
	if err != nil {
		return nil, err
	}

	if len(report.CurrentCondition) == 0 {
		return nil, errors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("response has no current_condition block"))
	}

	current := report.CurrentCondition[0]
	condition := ""
	if len(current.WeatherDesc) > 0 {
		condition = current.WeatherDesc[0].Value
	}

	return &models.WeatherSnapshot{
		ObservedAt:     time.Now().UTC(),
		TemperatureC:   parseFloat(current.TempC),
		FeelsLikeC:     parseFloat(current.FeelsLikeC),
		HumidityPct:    parseInt(current.Humidity),
		WindKph:        parseFloat(current.WindKmph),
		PressureHpa:    parseFloat(current.Pressure),
		VisibilityKm:   parseFloat(current.Visibility),
		ConditionText:  condition,
		ConditionEmoji: ConditionEmoji(condition),
		Source:         models.SourcePrimary,
	}, nil
}

func (p *WttrProvider) FetchForecastTomorrow(ctx context.Context, loc models.Location) (*models.ForecastDay, error) {
	report, err := p.fetchReport(ctx, loc)
	if err != nil {
		return nil, err
	}

	// Index 0 is today; tomorrow lives at index 1.
	if len(report.Weather) < 2 {
		return nil, errors.NewProviderUnavailableError(p.Name(),
			fmt.Errorf("response has no forecast for tomorrow"))
	}

	tomorrow := report.Weather[1]

	forecast := &models.ForecastDay{
		Date:  tomorrow.Date,
		Hours: make([]models.ForecastHour, 0, len(tomorrow.Hourly)),
	}

	if len(tomorrow.Astronomy) > 0 {
		forecast.Sunrise = tomorrow.Astronomy[0].Sunrise
		forecast.Sunset = tomorrow.Astronomy[0].Sunset
		forecast.MoonPhase = tomorrow.Astronomy[0].MoonPhase
	}

	for _, hour := range tomorrow.Hourly {
		forecast.Hours = append(forecast.Hours, models.ForecastHour{
			// wttr encodes hours as "0", "300", ..., "2100".
			Hour:               parseInt(hour.Time) / 100,
			TempC:              parseFloat(hour.TempC),
			FeelsLikeC:         parseFloat(hour.FeelsLikeC),
			RainProbabilityPct: parseInt(hour.ChanceOfRain),
		})
	}

	return forecast, nil
}

func (p *WttrProvider) fetchReport(ctx context.Context, loc models.Location) (*wttrReport, error) {
	if err := p.limiter.Acquire(ctx, wttrBucket); err != nil {
		return nil, errors.NewProviderUnavailableError(p.Name(), err)
	}

	url := fmt.Sprintf("%s/%f,%f?format=j1", p.baseURL, loc.Lat, loc.Lon)

	var report wttrReport
	if err := getJSON(ctx, p.client, p.breaker, url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}, &report); err != nil {
		return nil, errors.NewProviderUnavailableError(p.Name(), err)
	}

	return &report, nil
}

// parseFloat and parseInt degrade unparsable upstream strings to zero instead
// of failing the fetch.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
