// Package app wires configuration, storage, providers, and the HTTP
// server into a runnable application.
package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"weatherscope.app/api"
	"weatherscope.app/cache"
	"weatherscope.app/config"
	"weatherscope.app/database"
	"weatherscope.app/geocode"
	"weatherscope.app/providers"
	"weatherscope.app/ratelimit"
	"weatherscope.app/repository"
	"weatherscope.app/scheduler"
	"weatherscope.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...", "driver", app.config.Database.Driver)

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	geocodeCache, err := app.createCache("geocode")
	if err != nil {
		return fmt.Errorf("create geocode cache: %w", err)
	}
	weatherCache, err := app.createCache("weather")
	if err != nil {
		return fmt.Errorf("create weather cache: %w", err)
	}

	// One limiter shared by every upstream client, with per-host intervals.
	limiter := ratelimit.NewLimiter(app.config.Wttr.MinInterval)

	resolver := geocode.NewResolver(&app.config.Geocoding, geocodeCache, limiter)
	aggregator := app.createAggregator(weatherCache, limiter)

	searchRepo := repository.NewSearchRepository(app.db)
	weatherService := service.NewWeatherService(resolver, aggregator, searchRepo)

	app.server = api.NewServer(app.config, weatherService)
	app.scheduler = scheduler.NewScheduler(app.config, searchRepo)

	slog.Info("Services initialized successfully")
	return nil
}

// createCache builds the configured cache backend wrapped with hit/miss
// instrumentation.
func (app *Application) createCache(kind string) (cache.Cache, error) {
	var backend cache.Cache
	switch app.config.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Addr:         app.config.Cache.Redis.Addr,
			Password:     app.config.Cache.Redis.Password,
			DB:           app.config.Cache.Redis.DB,
			DialTimeout:  app.config.Cache.Redis.DialTimeout,
			ReadTimeout:  app.config.Cache.Redis.ReadTimeout,
			WriteTimeout: app.config.Cache.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, err
		}
		backend = redisCache
	default:
		backend = cache.NewMemoryCache()
	}

	return cache.NewInstrumentedCache(backend, kind), nil
}

// createAggregator assembles the fallback chain: wttr.in scraping first,
// OpenWeatherMap second when a credential is configured.
func (app *Application) createAggregator(store cache.Cache, limiter *ratelimit.Limiter) *providers.Aggregator {
	primary := providers.NewLoggerDecorator(providers.NewWttrProvider(&app.config.Wttr, limiter))

	var secondary providers.HistoryProvider
	if app.config.OpenWeather.HasCredential() {
		secondary = providers.NewHistoryLoggerDecorator(
			providers.NewOpenWeatherProvider(&app.config.OpenWeather, limiter))
	} else {
		slog.Info("No OpenWeatherMap credential configured, fallback and history disabled")
	}

	return providers.NewAggregator(
		primary,
		secondary,
		app.config.OpenWeather.HistoryEntitled,
		store,
		app.config.Cache.WeatherTTL,
	)
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Starting scheduler...")
	app.scheduler.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
