package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/photo-scout/internal/app"
	"github.com/Adda-Baaj/photo-scout/internal/config"
	"github.com/Adda-Baaj/photo-scout/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "photoscout failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("photoscout starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scout, err := app.NewScout(ctx, cfg, os.Stdout, log)
	if err != nil {
		logger.ErrorObj("failed to initialize photoscout", "error", err)
		return err
	}

	if err := scout.Run(ctx); err != nil {
		return fmt.Errorf("photoscout run: %w", err)
	}
	return nil
}
