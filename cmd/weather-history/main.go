package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/i474232898/weather-history/internal/account"
	httpapi "github.com/i474232898/weather-history/internal/api/http"
	"github.com/i474232898/weather-history/internal/config"
	"github.com/i474232898/weather-history/internal/history"
	"github.com/i474232898/weather-history/internal/session"
	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
	"github.com/i474232898/weather-history/internal/weather/providers"
	"github.com/i474232898/weather-history/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options come from the config, so fall back to defaults here.
		log := logger.Init(logger.Options{Service: "weather-history"})
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Output:  os.Stdout,
		Service: "weather-history",
	})
	log := logger.Get()

	db, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to open database")
	}
	defer db.Close()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeather.APIKey, cfg.OpenWeather.BaseURL)

	app, err := httpapi.NewApp(httpapi.Dependencies{
		Weather:  weather.NewService(provider, log),
		Accounts: account.NewService(store.NewUserRepository(db), bcrypt.DefaultCost, log),
		History:  history.NewService(store.NewHistoryRepository(db)),
		Sessions: session.NewManager(session.Config{
			Expiration:   cfg.Session.Expiration,
			CookieSecure: cfg.Session.CookieSecure,
		}),
		DB:  db,
		Log: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http app")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("shutdown complete")
}
