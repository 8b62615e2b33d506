// Package main is the entry point for the flight results service.
//
//	@title						Flight Results API
//	@version					1.0.0
//	@description				Backend for the flight results page: search sessions with filtering, sorting, departure and return selection, and booking handoff.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/flight-search/flight-booking-system/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/flight-search/flight-booking-system/docs"

	flighthttp "github.com/flight-search/flight-booking-system/internal/adapter/http"
	"github.com/flight-search/flight-booking-system/internal/adapter/http/middleware"
	"github.com/flight-search/flight-booking-system/internal/app"
	"github.com/flight-search/flight-booking-system/internal/config"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
)

const (
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 5 * time.Second
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.Logging)
	log := logger.Global

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("session_store", cfg.Session.Store).
		Msg("Configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	svc, err := app.New(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log.Logger, middleware.Options{
		Recovery: middleware.RecoveryConfig{DisablePrintStack: cfg.IsProduction()},
		Limiter: ratelimit.New(ratelimit.Config{
			RequestsPerSecond: cfg.Server.RateLimit,
			Burst:             cfg.Server.RateBurst,
		}),
	})

	flighthttp.RegisterRoutes(e, flighthttp.NewResultsHandler(svc.UseCase))
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, svc, log)
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, svc *app.Service, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	if err := svc.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing session store")
	}

	log.Info().Msg("Server stopped")
}
