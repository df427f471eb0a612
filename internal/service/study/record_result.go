package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// RecordResult persists one reported outcome. For final reports it also
// computes the continuation decision: whether the learner is done, or which
// cards the next practice round repeats.
func (s *Service) RecordResult(ctx context.Context, userID uuid.UUID, input RecordResultInput) (*RecordResultOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created domain.StudyLog
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.logs.Create(ctx, domain.StudyLog{
			UserID:       userID,
			CardID:       input.CardID,
			Result:       input.Result,
			Stage:        input.Stage,
			Mode:         input.Mode,
			Round:        input.Round,
			AnswerTimeMs: input.AnswerTimeMs,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("study.RecordResult create log: %w", err)
	}

	out := &RecordResultOutput{Log: created}

	if !input.Final {
		return out, nil
	}

	decision, err := s.decideContinuation(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	out.Decision = decision

	s.log.InfoContext(ctx, "final card reported",
		slog.String("user_id", userID.String()),
		slog.String("stage", input.Stage),
		slog.String("mode", string(input.Mode)),
		slog.Int("round", input.Round),
		slog.Int("remaining", decision.Remaining),
		slog.Bool("redirect", decision.RedirectToPrepare))

	return out, nil
}

// decideContinuation inspects the round the final report closed. Test mode
// always ends the session. Practice modes repeat the unknown subset until it
// is empty; small subsets ship inline, oversized ones make the client reload.
func (s *Service) decideContinuation(ctx context.Context, userID uuid.UUID, input RecordResultInput) (*domain.ReportDecision, error) {
	if !input.Mode.IsPractice() {
		return &domain.ReportDecision{
			RedirectToPrepare: true,
			Message:           "テストが完了しました",
		}, nil
	}

	unknownIDs, err := s.logs.UnknownCardIDs(ctx, userID, input.Stage, input.Mode, input.Round)
	if err != nil {
		return nil, fmt.Errorf("study.RecordResult unknown subset: %w", err)
	}

	if len(unknownIDs) == 0 {
		return &domain.ReportDecision{
			RedirectToPrepare: true,
			Message:           "全てのカードを覚えました",
		}, nil
	}

	decision := &domain.ReportDecision{Remaining: len(unknownIDs)}

	if len(unknownIDs) <= s.cfg.MaxNextCards {
		cards, err := s.cards.GetByIDs(ctx, unknownIDs)
		if err != nil {
			return nil, fmt.Errorf("study.RecordResult hydrate next cards: %w", err)
		}
		decision.NextCards = cards
	}

	return decision, nil
}
