package main

import (
	"context"
	"os"

	"tradeverify/internal/app"
	"tradeverify/internal/cli"
	"tradeverify/internal/platform/config"
	"tradeverify/internal/platform/logger"
)

// main loads configuration, wires the app and serves HTTP until a signal
// arrives. Business logic lives in internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("error", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	log.Info("starting tradeverify", "addr", cfg.Server.Addr, "env", cfg.Env())
	if err := cli.Serve(context.Background(), a); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
