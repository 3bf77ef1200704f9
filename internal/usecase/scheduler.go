package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArxivDigest/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case. A failed run is
// logged and left for the next trigger; the at-least-once model makes the
// retry safe.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring digest runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.pipeline.Run(ctx, trigger.UTC()); err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "error", err)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
