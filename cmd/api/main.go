package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"horizon/internal/shared/config"
	"horizon/internal/shared/logging"
	"horizon/internal/shared/telemetry"
)

func main() {
	logger := logging.New()

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("Application error")
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Telemetry shutdown error")
			}
		}()
		logger.Info().Msg("Telemetry initialized")
	}

	deps, err := NewDependencies(cfg)
	if err != nil {
		return err
	}

	handler := SetupRoutes(deps, cfg, logger)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg), logger)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, logger, 30*time.Second)
	return nil
}
