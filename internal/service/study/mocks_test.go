package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

var _ cardRepo = &cardRepoMock{}

type cardRepoMock struct {
	ListFunc     func(ctx context.Context, filter card.Filter) ([]domain.Card, error)
	CountFunc    func(ctx context.Context, filter card.Filter) (int, error)
	GetByIDsFunc func(ctx context.Context, cardIDs []uuid.UUID) ([]domain.Card, error)

	calls struct {
		List     []card.Filter
		Count    []card.Filter
		GetByIDs [][]uuid.UUID
	}
	lock sync.RWMutex
}

func (mock *cardRepoMock) List(ctx context.Context, filter card.Filter) ([]domain.Card, error) {
	if mock.ListFunc == nil {
		panic("cardRepoMock.ListFunc: method is nil but cardRepo.List was just called")
	}
	mock.lock.Lock()
	mock.calls.List = append(mock.calls.List, filter)
	mock.lock.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *cardRepoMock) ListCalls() []card.Filter {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.List
}

func (mock *cardRepoMock) Count(ctx context.Context, filter card.Filter) (int, error) {
	if mock.CountFunc == nil {
		panic("cardRepoMock.CountFunc: method is nil but cardRepo.Count was just called")
	}
	mock.lock.Lock()
	mock.calls.Count = append(mock.calls.Count, filter)
	mock.lock.Unlock()
	return mock.CountFunc(ctx, filter)
}

func (mock *cardRepoMock) GetByIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.Card, error) {
	if mock.GetByIDsFunc == nil {
		panic("cardRepoMock.GetByIDsFunc: method is nil but cardRepo.GetByIDs was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByIDs = append(mock.calls.GetByIDs, cardIDs)
	mock.lock.Unlock()
	return mock.GetByIDsFunc(ctx, cardIDs)
}

func (mock *cardRepoMock) GetByIDsCalls() [][]uuid.UUID {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByIDs
}

var _ studyLogRepo = &studyLogRepoMock{}

type studyLogRepoMock struct {
	CreateFunc         func(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error)
	UnknownCardIDsFunc func(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error)
	PurgeOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)

	calls struct {
		Create         []domain.StudyLog
		UnknownCardIDs []struct {
			UserID uuid.UUID
			Stage  string
			Mode   domain.StudyMode
			Round  int
		}
		PurgeOlderThan []time.Time
	}
	lock sync.RWMutex
}

func (mock *studyLogRepoMock) Create(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error) {
	if mock.CreateFunc == nil {
		panic("studyLogRepoMock.CreateFunc: method is nil but studyLogRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, log)
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, log)
}

func (mock *studyLogRepoMock) CreateCalls() []domain.StudyLog {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *studyLogRepoMock) UnknownCardIDs(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error) {
	if mock.UnknownCardIDsFunc == nil {
		panic("studyLogRepoMock.UnknownCardIDsFunc: method is nil but studyLogRepo.UnknownCardIDs was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		Stage  string
		Mode   domain.StudyMode
		Round  int
	}{UserID: userID, Stage: stage, Mode: mode, Round: round}
	mock.lock.Lock()
	mock.calls.UnknownCardIDs = append(mock.calls.UnknownCardIDs, callInfo)
	mock.lock.Unlock()
	return mock.UnknownCardIDsFunc(ctx, userID, stage, mode, round)
}

func (mock *studyLogRepoMock) UnknownCardIDsCalls() []struct {
	UserID uuid.UUID
	Stage  string
	Mode   domain.StudyMode
	Round  int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UnknownCardIDs
}

func (mock *studyLogRepoMock) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if mock.PurgeOlderThanFunc == nil {
		panic("studyLogRepoMock.PurgeOlderThanFunc: method is nil but studyLogRepo.PurgeOlderThan was just called")
	}
	mock.lock.Lock()
	mock.calls.PurgeOlderThan = append(mock.calls.PurgeOlderThan, cutoff)
	mock.lock.Unlock()
	return mock.PurgeOlderThanFunc(ctx, cutoff)
}

func (mock *studyLogRepoMock) PurgeOlderThanCalls() []time.Time {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.PurgeOlderThan
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct{}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
