// Command cleanup removes study logs older than the configured retention
// period. It is intended to be invoked by an external cron job as an
// alternative to the in-process scheduler.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/studylog"
	"github.com/heartmarshall/flashdeck-backend/internal/app"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	logRepo := studylog.New(pool)

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Cleanup.RetentionDays)

	deleted, err := logRepo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("purge failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		os.Exit(1)
	}

	logger.Info("purge completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
	)
}
