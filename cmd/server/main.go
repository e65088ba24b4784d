package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/logger"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/app"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("portfolio-reviews", cfg.LogLevel,
		slog.String("version", cfg.Version),
		slog.String("environment", cfg.Environment),
	)
	slog.SetDefault(log)
	log.Info("starting portfolio reviews service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	// Canceled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("run application: %w", err)
	}

	log.Info("portfolio reviews service stopped")
	return nil
}
