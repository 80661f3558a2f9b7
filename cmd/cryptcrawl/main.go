// Package main is the entry point for cryptcrawl.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/cryptcrawl/internal/game"
	"github.com/samdwyer/cryptcrawl/internal/gamedata"
	"github.com/samdwyer/cryptcrawl/internal/telemetry"
)

func main() {
	// Not fatal: variables may be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Printf("Warning: logging disabled: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Telemetry {
		setupOTelEnv()
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Warn("telemetry setup failed, running without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		logger.Error("catalog invalid", zap.Error(err))
		log.Fatalf("Failed to load game data: %v", err)
	}

	g, err := game.New(cfg, catalog, logger)
	if err != nil {
		logger.Error("game init failed", zap.Error(err))
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		logger.Error("game error", zap.Error(err))
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb when only an API key
// is configured. Explicit OTEL_* settings win.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		dataset := os.Getenv("HONEYCOMB_DATASET")
		if dataset == "" {
			dataset = "cryptcrawl"
		}
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
