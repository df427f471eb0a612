package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PurgeExpiredLogs deletes study logs older than the retention window and
// returns how many rows were removed.
func (s *Service) PurgeExpiredLogs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		return 0, fmt.Errorf("study.PurgeExpiredLogs: retention must be at least 1 day, got %d", retentionDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	deleted, err := s.logs.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("study.PurgeExpiredLogs: %w", err)
	}

	s.log.InfoContext(ctx, "expired study logs purged",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))

	return deleted, nil
}
