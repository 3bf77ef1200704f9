package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"ArxivDigest/internal/ports"
)

// CronScheduler triggers digest runs from a cron expression.
type CronScheduler struct {
	spec string
	loc  *time.Location
	c    *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler from a standard five-field cron
// expression evaluated in the given location.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, loc: loc}
}

// Start registers the job and begins the cron loop.
func (s *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.c != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() { job(time.Now().In(s.loc)) }); err != nil {
		return fmt.Errorf("register cron job %q: %w", s.spec, err)
	}
	c.Start()
	s.c = c
	return nil
}

// Stop halts the cron loop, waiting for a running job up to ctx's deadline.
func (s *CronScheduler) Stop(ctx context.Context) error {
	if s.c == nil {
		return nil
	}
	stopCtx := s.c.Stop()
	s.c = nil

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
