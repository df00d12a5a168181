package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"weatherscope.app/app"
	"weatherscope.app/pkg/logger"
)

func main() {
	log := logger.New()
	slog.SetDefault(log.Logger)

	// Missing .env is fine, the environment may already be populated.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("Received shutdown signal")
		if err := application.Shutdown(); err != nil {
			slog.Error("Shutdown error", "error", err)
		}
		os.Exit(0)
	}()

	if err := application.Start(); err != nil {
		slog.Error("Application error", "error", err)
		if shutdownErr := application.Shutdown(); shutdownErr != nil {
			slog.Error("Shutdown error", "error", shutdownErr)
		}
		os.Exit(1)
	}
}
