// Package study implements the server side of a study session: recording
// reported outcomes and serving card decks for the catalog.
package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// cardRepo defines the card repository interface needed by the study service.
type cardRepo interface {
	List(ctx context.Context, filter card.Filter) ([]domain.Card, error)
	Count(ctx context.Context, filter card.Filter) (int, error)
	GetByIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.Card, error)
}

// studyLogRepo defines the study log repository interface needed by the study service.
type studyLogRepo interface {
	Create(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error)
	UnknownCardIDs(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// txManager defines the transaction manager interface needed by the study service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements study operations.
type Service struct {
	log   *slog.Logger
	cards cardRepo
	logs  studyLogRepo
	tx    txManager
	cfg   config.StudyConfig
}

// NewService creates a new study service instance.
func NewService(
	logger *slog.Logger,
	cards cardRepo,
	logs studyLogRepo,
	tx txManager,
	cfg config.StudyConfig,
) *Service {
	return &Service{
		log:   logger,
		cards: cards,
		logs:  logs,
		tx:    tx,
		cfg:   cfg,
	}
}
