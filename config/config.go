package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"weatherscope.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server      ServerConfig      `split_words:"true"`
	Database    DatabaseConfig    `split_words:"true"`
	Geocoding   GeocodingConfig   `split_words:"true"`
	Wttr        WttrConfig        `split_words:"true"`
	OpenWeather OpenWeatherConfig `split_words:"true"`
	Cache       CacheConfig       `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains search-history database settings. The default
// sqlite driver keeps single-node deployments dependency-free; postgres is
// available for shared installations.
type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"sqlite"`
	Path            string        `envconfig:"DB_PATH" default:"data/weatherscope.db"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name            string        `envconfig:"DB_NAME" default:"weatherscope"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	SearchRetention time.Duration `envconfig:"DB_SEARCH_RETENTION" default:"720h"`
}

// GetDSN returns a formatted postgres connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GeocodingConfig contains settings for the Nominatim geocoding client.
// Nominatim's usage policy requires an identifying User-Agent and at most one
// request per second.
type GeocodingConfig struct {
	BaseURL     string        `envconfig:"GEOCODING_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent   string        `envconfig:"GEOCODING_USER_AGENT" default:"weatherscope/1.0"`
	MinInterval time.Duration `envconfig:"GEOCODING_MIN_INTERVAL" default:"1s"`
	Timeout     time.Duration `envconfig:"GEOCODING_TIMEOUT" default:"5s"`
	CacheTTL    time.Duration `envconfig:"GEOCODING_CACHE_TTL" default:"6h"`
	MaxResults  int           `envconfig:"GEOCODING_MAX_RESULTS" default:"10"`
}

// WttrConfig contains settings for the primary (free, unauthenticated)
// weather source.
type WttrConfig struct {
	BaseURL     string        `envconfig:"WTTR_BASE_URL" default:"https://wttr.in"`
	Timeout     time.Duration `envconfig:"WTTR_TIMEOUT" default:"10s"`
	MinInterval time.Duration `envconfig:"WTTR_MIN_INTERVAL" default:"250ms"`
}

// OpenWeatherConfig contains settings for the secondary weather provider.
// APIKey is optional: its absence disables the fallback and history paths but
// never current/forecast via the primary source. History additionally needs a
// paid entitlement on the key.
type OpenWeatherConfig struct {
	APIKey          string        `envconfig:"OPENWEATHERMAP_API_KEY"`
	BaseURL         string        `envconfig:"OPENWEATHERMAP_BASE_URL" default:"https://api.openweathermap.org"`
	Timeout         time.Duration `envconfig:"OPENWEATHERMAP_TIMEOUT" default:"10s"`
	MinInterval     time.Duration `envconfig:"OPENWEATHERMAP_MIN_INTERVAL" default:"250ms"`
	HistoryEntitled bool          `envconfig:"OPENWEATHERMAP_HISTORY_ENTITLED" default:"false"`
}

// HasCredential reports whether the secondary provider can be used at all.
func (o OpenWeatherConfig) HasCredential() bool {
	return strings.TrimSpace(o.APIKey) != ""
}

// CacheConfig selects the cache backend and the per-kind TTLs. Geocoding
// results are stable for hours; current weather changes continuously and gets
// a short TTL.
type CacheConfig struct {
	Type       string        `envconfig:"CACHE_TYPE" default:"memory"`
	WeatherTTL time.Duration `envconfig:"CACHE_WEATHER_TTL" default:"10m"`
	Redis      RedisConfig   `split_words:"true"`
}

// RedisConfig contains Redis connection settings, used when CACHE_TYPE=redis.
type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Geocoding.Validate(); err != nil {
		return err
	}
	if err := c.Wttr.Validate(); err != nil {
		return err
	}
	if err := c.OpenWeather.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case "sqlite":
		if d.Path == "" {
			return errors.NewConfigurationError("DB_PATH cannot be empty for sqlite", nil)
		}
	case "postgres":
		if d.Host == "" {
			return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
		}
		if d.Port < 1 || d.Port > 65535 {
			return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
		}
		if d.User == "" {
			return errors.NewConfigurationError("DB_USER cannot be empty", nil)
		}
		if d.Name == "" {
			return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
		}
		if err := d.validateSSLMode(); err != nil {
			return err
		}
	default:
		return errors.NewConfigurationError("DB_DRIVER must be sqlite or postgres", nil)
	}
	if d.SearchRetention <= 0 {
		return errors.NewConfigurationError("DB_SEARCH_RETENTION must be positive", nil)
	}
	return nil
}

func (d *DatabaseConfig) validateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks geocoding client configuration
func (g *GeocodingConfig) Validate() error {
	if err := validateHTTPURL("GEOCODING_BASE_URL", g.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(g.UserAgent) == "" {
		return errors.NewConfigurationError("GEOCODING_USER_AGENT cannot be empty", nil)
	}
	if g.MinInterval < time.Second {
		return errors.NewConfigurationError("GEOCODING_MIN_INTERVAL must be at least 1s", nil)
	}
	if g.Timeout <= 0 {
		return errors.NewConfigurationError("GEOCODING_TIMEOUT must be positive", nil)
	}
	if g.MaxResults < 1 || g.MaxResults > 50 {
		return errors.NewConfigurationError("GEOCODING_MAX_RESULTS must be between 1 and 50", nil)
	}
	return nil
}

// Validate checks primary weather source configuration
func (w *WttrConfig) Validate() error {
	if err := validateHTTPURL("WTTR_BASE_URL", w.BaseURL); err != nil {
		return err
	}
	if w.Timeout <= 0 {
		return errors.NewConfigurationError("WTTR_TIMEOUT must be positive", nil)
	}
	return nil
}

// Validate checks secondary weather provider configuration
func (o *OpenWeatherConfig) Validate() error {
	if err := validateHTTPURL("OPENWEATHERMAP_BASE_URL", o.BaseURL); err != nil {
		return err
	}
	if o.Timeout <= 0 {
		return errors.NewConfigurationError("OPENWEATHERMAP_TIMEOUT must be positive", nil)
	}
	if o.HistoryEntitled && !o.HasCredential() {
		return errors.NewConfigurationError("OPENWEATHERMAP_HISTORY_ENTITLED requires OPENWEATHERMAP_API_KEY", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.Type != "memory" && c.Type != "redis" {
		return errors.NewConfigurationError("CACHE_TYPE must be memory or redis", nil)
	}
	if c.WeatherTTL <= 0 {
		return errors.NewConfigurationError("CACHE_WEATHER_TTL must be positive", nil)
	}
	if c.Type == "redis" && c.Redis.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty", nil)
	}
	return nil
}

func validateHTTPURL(name, value string) error {
	if value == "" {
		return errors.NewConfigurationError(name+" cannot be empty", nil)
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return errors.NewConfigurationError(name+" must start with http:// or https://", nil)
	}
	return nil
}
