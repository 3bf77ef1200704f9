package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ArxivDigest/internal/config"
	"ArxivDigest/internal/infrastructure/arxiv"
	"ArxivDigest/internal/infrastructure/discord"
	"ArxivDigest/internal/infrastructure/parser"
	"ArxivDigest/internal/infrastructure/scheduler"
	"ArxivDigest/internal/infrastructure/storage"
	"ArxivDigest/internal/infrastructure/telegram"
	"ArxivDigest/internal/ledger"
	"ArxivDigest/internal/logging"
	"ArxivDigest/internal/ports"
	"ArxivDigest/internal/scanner"
	"ArxivDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New validates the configuration and builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := arxiv.NewClient(arxiv.Config{
		Endpoint:        cfg.Arxiv.Endpoint,
		UserAgent:       cfg.Arxiv.UserAgent,
		RequestTimeout:  cfg.Arxiv.RequestTimeout(),
		InterQueryDelay: cfg.Arxiv.InterQueryDelay(),
	}, baseLogger.With("component", "arxiv"))

	registry := scanner.NewRegistry()
	registry.Register(parser.NewAPIScanner(client, baseLogger.With("component", "scanner.api")))
	registry.Register(parser.NewListingScanner(nil))

	source := parser.NewStrategySource(registry, cfg.Topics, cfg.Arxiv.MaxResultsPerTopic,
		baseLogger.With("component", "source"))

	messenger, err := buildMessenger(cfg.Delivery)
	if err != nil {
		return nil, err
	}

	store := ledger.NewFileStore(cfg.Ledger.Path, baseLogger.With("component", "ledger"))

	var archive ports.Archive
	if cfg.Archive.DSN != "" {
		db, err := storage.Open(ctx, cfg.Archive.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect archive: %w", err)
		}
		archive = storage.NewPostgresArchive(db)
	}

	pipeline := usecase.NewPipeline(cfg, usecase.PipelineDeps{
		Source:    source,
		Messenger: messenger,
		Ledger:    store,
		Archive:   archive,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

func buildMessenger(cfg config.DeliveryConfig) (ports.Messenger, error) {
	switch cfg.Channel {
	case config.ChannelTelegram:
		chatID, err := cfg.Telegram.ChatIDInt()
		if err != nil {
			return nil, err
		}
		return telegram.NewMessenger(cfg.Telegram.BotToken, chatID)
	default:
		timeout := time.Duration(cfg.Discord.RequestTimeoutSeconds) * time.Second
		return discord.NewMessenger(cfg.Discord.WebhookURL, cfg.MaxUnitLength, timeout), nil
	}
}

// RunOnce performs a single digest run anchored at the current time.
func (a *Application) RunOnce(ctx context.Context) error {
	return a.pipeline.Run(ctx, time.Now().UTC())
}

// RunScheduled starts the cron loop and blocks until ctx is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}
