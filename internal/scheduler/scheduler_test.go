package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/config"
)

type purgerMock struct {
	calls atomic.Int64
	out   int64
	err   error
}

func (m *purgerMock) PurgeExpiredLogs(ctx context.Context, retentionDays int) (int64, error) {
	m.calls.Add(1)
	return m.out, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_Disabled_NeverRuns(t *testing.T) {
	mock := &purgerMock{}
	s := New(testLogger(), mock, config.CleanupConfig{
		Enabled:       false,
		RetentionDays: 30,
		Interval:      10 * time.Millisecond,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: unexpected error: %v", err)
	}
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := mock.calls.Load(); got != 0 {
		t.Fatalf("disabled scheduler ran %d times", got)
	}
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	mock := &purgerMock{out: 7}
	s := New(testLogger(), mock, config.CleanupConfig{
		Enabled:       true,
		RetentionDays: 30,
		Interval:      20 * time.Millisecond,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for mock.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 purge runs, got %d", mock.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
