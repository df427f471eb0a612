package study

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCfg() config.StudyConfig {
	return config.StudyConfig{
		MaxCardsPerFetch: 500,
		DefaultChunkSize: 10,
		MaxNextCards:     200,
	}
}

func testCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{ID: uuid.New(), Source: "textbook"}
	}
	return cards
}

// echoCreate persists the log as-is, filling server-side fields.
func echoCreate(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error) {
	log.ID = uuid.New()
	log.CreatedAt = time.Now().UTC()
	return log, nil
}

// ---------------------------------------------------------------------------
// RecordResult
// ---------------------------------------------------------------------------

func TestService_RecordResult_NonFinal(t *testing.T) {
	t.Parallel()

	logsMock := &studyLogRepoMock{CreateFunc: echoCreate}
	svc := NewService(testLogger(), &cardRepoMock{}, logsMock, &txManagerMock{}, testCfg())

	userID := uuid.New()
	answerTime := 2500
	out, err := svc.RecordResult(context.Background(), userID, RecordResultInput{
		CardID:       uuid.New(),
		Result:       domain.OutcomeKnown,
		Stage:        "algebra1",
		Mode:         domain.StudyModePractice,
		Round:        1,
		AnswerTimeMs: &answerTime,
	})
	if err != nil {
		t.Fatalf("RecordResult: unexpected error: %v", err)
	}
	if out.Decision != nil {
		t.Error("non-final report must not carry a decision")
	}

	created := logsMock.CreateCalls()
	if len(created) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(created))
	}
	if created[0].UserID != userID {
		t.Errorf("UserID mismatch: got %s, want %s", created[0].UserID, userID)
	}
	if created[0].AnswerTimeMs == nil || *created[0].AnswerTimeMs != 2500 {
		t.Errorf("AnswerTimeMs mismatch: got %v", created[0].AnswerTimeMs)
	}
}

func TestService_RecordResult_FinalTestMode_Redirects(t *testing.T) {
	t.Parallel()

	logsMock := &studyLogRepoMock{CreateFunc: echoCreate}
	svc := NewService(testLogger(), &cardRepoMock{}, logsMock, &txManagerMock{}, testCfg())

	out, err := svc.RecordResult(context.Background(), uuid.New(), RecordResultInput{
		CardID: uuid.New(),
		Result: domain.OutcomeUnknown,
		Stage:  "algebra1",
		Mode:   domain.StudyModeTest,
		Round:  1,
		Final:  true,
	})
	if err != nil {
		t.Fatalf("RecordResult: unexpected error: %v", err)
	}
	if out.Decision == nil {
		t.Fatal("final report must carry a decision")
	}
	if !out.Decision.RedirectToPrepare {
		t.Error("test mode must always redirect to prepare")
	}
	if out.Decision.Message == "" {
		t.Error("expected completion message")
	}
	// Test mode never queries the unknown subset.
	if len(logsMock.UnknownCardIDsCalls()) != 0 {
		t.Error("test mode must not compute a retry subset")
	}
}

func TestService_RecordResult_FinalPractice_AllKnown_Redirects(t *testing.T) {
	t.Parallel()

	logsMock := &studyLogRepoMock{
		CreateFunc: echoCreate,
		UnknownCardIDsFunc: func(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error) {
			return []uuid.UUID{}, nil
		},
	}
	svc := NewService(testLogger(), &cardRepoMock{}, logsMock, &txManagerMock{}, testCfg())

	out, err := svc.RecordResult(context.Background(), uuid.New(), RecordResultInput{
		CardID: uuid.New(),
		Result: domain.OutcomeKnown,
		Stage:  "algebra1",
		Mode:   domain.StudyModePractice,
		Round:  2,
		Final:  true,
	})
	if err != nil {
		t.Fatalf("RecordResult: unexpected error: %v", err)
	}
	if !out.Decision.RedirectToPrepare {
		t.Error("empty unknown subset must end the session")
	}
	if out.Decision.Remaining != 0 {
		t.Errorf("Remaining should be 0, got %d", out.Decision.Remaining)
	}
}

func TestService_RecordResult_FinalPractice_InlineNextCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	unknown := testCards(3)
	unknownIDs := []uuid.UUID{unknown[0].ID, unknown[1].ID, unknown[2].ID}

	logsMock := &studyLogRepoMock{
		CreateFunc: echoCreate,
		UnknownCardIDsFunc: func(ctx context.Context, uid uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error) {
			if uid != userID || stage != "geometry2" || mode != domain.StudyModePractice || round != 1 {
				t.Errorf("unknown subset queried with wrong scope: %s %s %s %d", uid, stage, mode, round)
			}
			return unknownIDs, nil
		},
	}
	cardsMock := &cardRepoMock{
		GetByIDsFunc: func(ctx context.Context, cardIDs []uuid.UUID) ([]domain.Card, error) {
			if len(cardIDs) != 3 {
				t.Errorf("expected 3 ids to hydrate, got %d", len(cardIDs))
			}
			return unknown, nil
		},
	}
	svc := NewService(testLogger(), cardsMock, logsMock, &txManagerMock{}, testCfg())

	out, err := svc.RecordResult(context.Background(), userID, RecordResultInput{
		CardID: unknown[2].ID,
		Result: domain.OutcomeUnknown,
		Stage:  "geometry2",
		Mode:   domain.StudyModePractice,
		Round:  1,
		Final:  true,
	})
	if err != nil {
		t.Fatalf("RecordResult: unexpected error: %v", err)
	}
	if out.Decision.RedirectToPrepare {
		t.Error("practice with unknowns must continue")
	}
	if out.Decision.Remaining != 3 {
		t.Errorf("Remaining mismatch: got %d, want 3", out.Decision.Remaining)
	}
	if len(out.Decision.NextCards) != 3 {
		t.Errorf("NextCards mismatch: got %d, want 3", len(out.Decision.NextCards))
	}
	if !out.Decision.PracticeContinues() {
		t.Error("PracticeContinues should report true")
	}
}

func TestService_RecordResult_FinalPractice_OversizedSubset_NoInline(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.MaxNextCards = 2

	unknownIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	logsMock := &studyLogRepoMock{
		CreateFunc: echoCreate,
		UnknownCardIDsFunc: func(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error) {
			return unknownIDs, nil
		},
	}
	cardsMock := &cardRepoMock{}
	svc := NewService(testLogger(), cardsMock, logsMock, &txManagerMock{}, cfg)

	out, err := svc.RecordResult(context.Background(), uuid.New(), RecordResultInput{
		CardID: uuid.New(),
		Result: domain.OutcomeUnknown,
		Stage:  "algebra1",
		Mode:   domain.StudyModeChunkPractice,
		Round:  1,
		Final:  true,
	})
	if err != nil {
		t.Fatalf("RecordResult: unexpected error: %v", err)
	}
	if out.Decision.Remaining != 3 {
		t.Errorf("Remaining mismatch: got %d, want 3", out.Decision.Remaining)
	}
	if len(out.Decision.NextCards) != 0 {
		t.Error("oversized subset must not ship inline cards")
	}
	if len(cardsMock.GetByIDsCalls()) != 0 {
		t.Error("oversized subset must skip hydration")
	}
}

func TestService_RecordResult_ValidationError(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &cardRepoMock{}, &studyLogRepoMock{}, &txManagerMock{}, testCfg())

	_, err := svc.RecordResult(context.Background(), uuid.New(), RecordResultInput{
		Result: domain.Outcome("maybe"),
		Mode:   domain.StudyMode("cram"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_RecordResult_CreateError(t *testing.T) {
	t.Parallel()

	logsMock := &studyLogRepoMock{
		CreateFunc: func(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error) {
			return domain.StudyLog{}, domain.ErrNotFound
		},
	}
	svc := NewService(testLogger(), &cardRepoMock{}, logsMock, &txManagerMock{}, testCfg())

	_, err := svc.RecordResult(context.Background(), uuid.New(), RecordResultInput{
		CardID: uuid.New(),
		Result: domain.OutcomeKnown,
		Stage:  "algebra1",
		Mode:   domain.StudyModeTest,
		Round:  1,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListCards
// ---------------------------------------------------------------------------

func TestService_ListCards_Chunking(t *testing.T) {
	t.Parallel()

	cardsMock := &cardRepoMock{
		CountFunc: func(ctx context.Context, filter card.Filter) (int, error) {
			return 25, nil
		},
		ListFunc: func(ctx context.Context, filter card.Filter) ([]domain.Card, error) {
			return testCards(10), nil
		},
	}
	svc := NewService(testLogger(), cardsMock, &studyLogRepoMock{}, &txManagerMock{}, testCfg())

	deck, err := svc.ListCards(context.Background(), ListCardsInput{
		Source:     "textbook",
		ChunkSize:  10,
		ChunkIndex: 2,
	})
	if err != nil {
		t.Fatalf("ListCards: unexpected error: %v", err)
	}
	if deck.Total != 25 {
		t.Errorf("Total mismatch: got %d, want 25", deck.Total)
	}

	listCalls := cardsMock.ListCalls()
	if len(listCalls) != 1 {
		t.Fatalf("expected 1 List call, got %d", len(listCalls))
	}
	if listCalls[0].Limit != 10 || listCalls[0].Offset != 20 {
		t.Errorf("chunk window mismatch: limit=%d offset=%d, want 10/20", listCalls[0].Limit, listCalls[0].Offset)
	}
}

func TestService_ListCards_CapsFetchSize(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.MaxCardsPerFetch = 50

	cardsMock := &cardRepoMock{
		CountFunc: func(ctx context.Context, filter card.Filter) (int, error) { return 1000, nil },
		ListFunc: func(ctx context.Context, filter card.Filter) ([]domain.Card, error) {
			if filter.Limit != 50 {
				t.Errorf("limit should be capped at 50, got %d", filter.Limit)
			}
			return testCards(50), nil
		},
	}
	svc := NewService(testLogger(), cardsMock, &studyLogRepoMock{}, &txManagerMock{}, cfg)

	_, err := svc.ListCards(context.Background(), ListCardsInput{Source: "textbook"})
	if err != nil {
		t.Fatalf("ListCards: unexpected error: %v", err)
	}
}

func TestService_ListCards_MissingSource(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &cardRepoMock{}, &studyLogRepoMock{}, &txManagerMock{}, testCfg())

	_, err := svc.ListCards(context.Background(), ListCardsInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// PurgeExpiredLogs
// ---------------------------------------------------------------------------

func TestService_PurgeExpiredLogs(t *testing.T) {
	t.Parallel()

	logsMock := &studyLogRepoMock{
		PurgeOlderThanFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 42, nil
		},
	}
	svc := NewService(testLogger(), &cardRepoMock{}, logsMock, &txManagerMock{}, testCfg())

	deleted, err := svc.PurgeExpiredLogs(context.Background(), 30)
	if err != nil {
		t.Fatalf("PurgeExpiredLogs: unexpected error: %v", err)
	}
	if deleted != 42 {
		t.Errorf("deleted mismatch: got %d, want 42", deleted)
	}

	cutoffs := logsMock.PurgeOlderThanCalls()
	if len(cutoffs) != 1 {
		t.Fatalf("expected 1 purge call, got %d", len(cutoffs))
	}
	wantCutoff := time.Now().UTC().AddDate(0, 0, -30)
	if diff := wantCutoff.Sub(cutoffs[0]); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff off by %v", diff)
	}
}

func TestService_PurgeExpiredLogs_InvalidRetention(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &cardRepoMock{}, &studyLogRepoMock{}, &txManagerMock{}, testCfg())

	if _, err := svc.PurgeExpiredLogs(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero retention")
	}
}
