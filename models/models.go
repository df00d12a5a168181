// Package models defines data structures used throughout the application
package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Source identifies which upstream provider produced a weather result.
type Source string

const (
	SourcePrimary   Source = "PRIMARY"
	SourceSecondary Source = "SECONDARY"
)

// Location is a resolved, unambiguous place. Identity is the
// (Name, Country, State) triple, not the display name alone: two places
// sharing a name in different countries or states are distinct and must
// never be merged.
type Location struct {
	Query   string  `json:"query"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Key returns the identity triple as a single comparable string.
func (l Location) Key() string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%s", l.Name, l.Country, l.State))
}

// DisplayName renders the location the way search results present it.
func (l Location) DisplayName() string {
	if l.State != "" {
		return fmt.Sprintf("%s, %s, %s", l.Name, l.State, l.Country)
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

// WeatherSnapshot is one normalized current-weather observation. Instances
// are never mutated after construction; staleness is handled by cache expiry
// and re-fetch.
type WeatherSnapshot struct {
	ObservedAt     time.Time `json:"observed_at"`
	TemperatureC   float64   `json:"temperature_c"`
	FeelsLikeC     float64   `json:"feels_like_c"`
	HumidityPct    int       `json:"humidity_pct"`
	WindKph        float64   `json:"wind_kph"`
	PressureHpa    float64   `json:"pressure_hpa"`
	VisibilityKm   float64   `json:"visibility_km"`
	ConditionText  string    `json:"condition_text"`
	ConditionEmoji string    `json:"condition_emoji"`
	Source         Source    `json:"source"`
}

// ForecastHour is a single hourly entry inside a ForecastDay.
type ForecastHour struct {
	Hour               int     `json:"hour"`
	TempC              float64 `json:"temp_c"`
	FeelsLikeC         float64 `json:"feels_like_c"`
	RainProbabilityPct int     `json:"rain_probability_pct"`
}

// ForecastDay is a next-day forecast with its hourly breakdown, ordered by
// hour ascending.
type ForecastDay struct {
	Date      string         `json:"date"`
	Hours     []ForecastHour `json:"hours"`
	Sunrise   string         `json:"sunrise"`
	Sunset    string         `json:"sunset"`
	MoonPhase string         `json:"moon_phase"`
}

// HistoricalRecord is one day of past weather, available only from the
// secondary provider.
type HistoricalRecord struct {
	Date        string  `json:"date"`
	AvgTempC    float64 `json:"avg_temp_c"`
	MaxTempC    float64 `json:"max_temp_c"`
	MinTempC    float64 `json:"min_temp_c"`
	HumidityPct int     `json:"humidity_pct"`
}

// WeatherBundle is the aggregator result: current conditions plus tomorrow's
// forecast, both guaranteed to come from the same provider.
type WeatherBundle struct {
	Current  *WeatherSnapshot `json:"current"`
	Forecast *ForecastDay     `json:"forecast"`
	Source   Source           `json:"source"`
}

// SearchRecord persists one successful weather lookup for search history.
type SearchRecord struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Query      string         `json:"query" gorm:"not null"`
	Name       string         `json:"name" gorm:"index;not null"`
	Country    string         `json:"country" gorm:"not null"`
	State      string         `json:"state"`
	Lat        float64        `json:"lat"`
	Lon        float64        `json:"lon"`
	SearchedAt time.Time      `json:"searched_at" gorm:"index"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// LocationQuery binds the resolve endpoint parameters.
type LocationQuery struct {
	Query string `form:"q" binding:"required"`
}

// WeatherQuery binds the weather endpoint parameters. Coordinates are
// pointers so that zero values (the equator and prime meridian) still
// satisfy the required check.
type WeatherQuery struct {
	Lat     *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lon     *float64 `form:"lon" binding:"required,min=-180,max=180"`
	Name    string   `form:"name" binding:"required"`
	Country string   `form:"country"`
	State   string   `form:"state"`
}

// Location converts the bound query into a location value.
func (q WeatherQuery) Location() Location {
	return Location{
		Name:    q.Name,
		Country: q.Country,
		State:   q.State,
		Lat:     *q.Lat,
		Lon:     *q.Lon,
	}
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
	// Reasons carries the individual upstream failures when more than one
	// collaborator failed at once.
	Reasons []string `json:"reasons,omitempty"`
	// Reason carries the history sub-reason when history is unavailable.
	Reason string `json:"reason,omitempty"`
}
