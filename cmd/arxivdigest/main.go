package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ArxivDigest/internal/app"
	"ArxivDigest/internal/config"
	"ArxivDigest/internal/logging"
)

func main() {
	var scheduled bool
	flag.BoolVar(&scheduled, "schedule", false, "run under the configured cron schedule instead of once")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if scheduled {
		err = application.RunScheduled(ctx)
	} else {
		err = application.RunOnce(ctx)
	}
	if err != nil {
		logger.Error("digest run failed", "error", err)
		os.Exit(1)
	}
}
