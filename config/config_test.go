package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()

		config, err := LoadConfig()

		assert.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, 8080, config.Server.Port)
		assert.Equal(t, "sqlite", config.Database.Driver)
		assert.Equal(t, "data/weatherscope.db", config.Database.Path)
		assert.Equal(t, 720*time.Hour, config.Database.SearchRetention)
		assert.Equal(t, "https://nominatim.openstreetmap.org", config.Geocoding.BaseURL)
		assert.Equal(t, "weatherscope/1.0", config.Geocoding.UserAgent)
		assert.Equal(t, time.Second, config.Geocoding.MinInterval)
		assert.Equal(t, 6*time.Hour, config.Geocoding.CacheTTL)
		assert.Equal(t, "https://wttr.in", config.Wttr.BaseURL)
		assert.Equal(t, 10*time.Second, config.Wttr.Timeout)
		assert.Equal(t, "", config.OpenWeather.APIKey)
		assert.False(t, config.OpenWeather.HasCredential())
		assert.False(t, config.OpenWeather.HistoryEntitled)
		assert.Equal(t, "memory", config.Cache.Type)
		assert.Equal(t, 10*time.Minute, config.Cache.WeatherTTL)
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()

		require.NoError(t, os.Setenv("SERVER_PORT", "9090"))
		require.NoError(t, os.Setenv("GEOCODING_USER_AGENT", "test-agent/2.0"))
		require.NoError(t, os.Setenv("OPENWEATHERMAP_API_KEY", "test-key"))
		require.NoError(t, os.Setenv("OPENWEATHERMAP_HISTORY_ENTITLED", "true"))
		require.NoError(t, os.Setenv("CACHE_TYPE", "redis"))
		require.NoError(t, os.Setenv("REDIS_ADDR", "redis:6380"))
		require.NoError(t, os.Setenv("CACHE_WEATHER_TTL", "3m"))

		config, err := LoadConfig()

		assert.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, "test-agent/2.0", config.Geocoding.UserAgent)
		assert.True(t, config.OpenWeather.HasCredential())
		assert.True(t, config.OpenWeather.HistoryEntitled)
		assert.Equal(t, "redis", config.Cache.Type)
		assert.Equal(t, "redis:6380", config.Cache.Redis.Addr)
		assert.Equal(t, 3*time.Minute, config.Cache.WeatherTTL)
	})

	t.Run("EntitlementWithoutCredentialRejected", func(t *testing.T) {
		os.Clearenv()

		require.NoError(t, os.Setenv("OPENWEATHERMAP_HISTORY_ENTITLED", "true"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "OPENWEATHERMAP_HISTORY_ENTITLED")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "InvalidServerPort",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "UnknownDatabaseDriver",
			mutate:  func(c *Config) { c.Database.Driver = "oracle" },
			wantErr: "DB_DRIVER",
		},
		{
			name: "PostgresWithoutHost",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Host = ""
			},
			wantErr: "DB_HOST",
		},
		{
			name:    "NonPositiveSearchRetention",
			mutate:  func(c *Config) { c.Database.SearchRetention = 0 },
			wantErr: "DB_SEARCH_RETENTION",
		},
		{
			name:    "GeocodingIntervalTooShort",
			mutate:  func(c *Config) { c.Geocoding.MinInterval = 100 * time.Millisecond },
			wantErr: "GEOCODING_MIN_INTERVAL",
		},
		{
			name:    "GeocodingBaseURLNotHTTP",
			mutate:  func(c *Config) { c.Geocoding.BaseURL = "ftp://nominatim" },
			wantErr: "GEOCODING_BASE_URL",
		},
		{
			name:    "EmptyUserAgent",
			mutate:  func(c *Config) { c.Geocoding.UserAgent = "  " },
			wantErr: "GEOCODING_USER_AGENT",
		},
		{
			name:    "UnknownCacheType",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "CACHE_TYPE",
		},
		{
			name:    "NonPositiveWeatherTTL",
			mutate:  func(c *Config) { c.Cache.WeatherTTL = 0 },
			wantErr: "CACHE_WEATHER_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			config, err := LoadConfig()
			require.NoError(t, err)

			tt.mutate(config)
			err = config.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
