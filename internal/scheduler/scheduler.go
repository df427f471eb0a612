// Package scheduler runs the periodic study-log retention purge.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/heartmarshall/flashdeck-backend/internal/config"
)

// purger defines the cleanup operation the scheduler drives.
type purger interface {
	PurgeExpiredLogs(ctx context.Context, retentionDays int) (int64, error)
}

// Scheduler manages the periodic retention job.
type Scheduler struct {
	log       *slog.Logger
	scheduler *gocron.Scheduler
	study     purger
	cfg       config.CleanupConfig
}

// New creates a new scheduler instance.
func New(logger *slog.Logger, study purger, cfg config.CleanupConfig) *Scheduler {
	return &Scheduler{
		log:       logger,
		scheduler: gocron.NewScheduler(time.UTC),
		study:     study,
		cfg:       cfg,
	}
}

// Start registers the retention job and begins running it in the background.
// Disabled cleanup results in a no-op scheduler.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.log.Info("retention cleanup disabled, scheduler idle")
		return nil
	}

	if _, err := s.scheduler.Every(s.cfg.Interval).Do(s.runPurge); err != nil {
		return err
	}

	s.scheduler.StartAsync()

	s.log.Info("retention scheduler started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Int("retention_days", s.cfg.RetentionDays))

	return nil
}

// Stop terminates all scheduled jobs and waits for the running one to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := s.study.PurgeExpiredLogs(ctx, s.cfg.RetentionDays)
	if err != nil {
		s.log.ErrorContext(ctx, "retention purge failed", slog.String("error", err.Error()))
		return
	}

	s.log.InfoContext(ctx, "retention purge completed", slog.Int64("deleted", deleted))
}
