package reporter

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// resultRequest is the JSON body posted to the result-logging endpoint.
// Stage, mode, and round are opaque pass-through values supplied by the host.
type resultRequest struct {
	CardID       string `json:"card_id"`
	Result       string `json:"result"`
	Stage        string `json:"stage"`
	Mode         string `json:"mode"`
	Round        int    `json:"round"`
	AnswerTimeMs *int   `json:"answer_time_ms,omitempty"`
	Final        bool   `json:"final"`
}

// resultResponse is the endpoint's reply. Only final-card replies carry the
// completion fields; non-final replies are acknowledged and discarded.
type resultResponse struct {
	Success           bool       `json:"success"`
	RedirectToPrepare bool       `json:"redirect_to_prepare"`
	Message           string     `json:"message,omitempty"`
	RemainingCount    int        `json:"remaining_count"`
	NextCards         []wireCard `json:"next_cards,omitempty"`
}

// wireCard matches the card shape served by the study API.
type wireCard struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	PageNumber    *int    `json:"page_number,omitempty"`
	ProblemNumber *string `json:"problem_number,omitempty"`
	Topic         *string `json:"topic,omitempty"`
	Level         *string `json:"level,omitempty"`
	QuestionImage *string `json:"image_problem,omitempty"`
	AnswerImage   *string `json:"image_answer,omitempty"`
}

func toResultRequest(report domain.OutcomeReport) resultRequest {
	return resultRequest{
		CardID:       report.CardID.String(),
		Result:       report.Result.String(),
		Stage:        report.Context.Stage,
		Mode:         report.Context.Mode.String(),
		Round:        report.Context.Round,
		AnswerTimeMs: report.AnswerTimeMs,
		Final:        report.Final,
	}
}

func (r *resultResponse) toDecision() *domain.ReportDecision {
	return &domain.ReportDecision{
		RedirectToPrepare: r.RedirectToPrepare,
		Message:           r.Message,
		Remaining:         r.RemainingCount,
		NextCards:         toDomainCards(r.NextCards),
	}
}

// toDomainCards converts wire cards, skipping entries with unusable ids.
// A malformed inline card must not break continuation for the rest.
func toDomainCards(cards []wireCard) []domain.Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]domain.Card, 0, len(cards))
	for _, wc := range cards {
		id, err := uuid.Parse(wc.ID)
		if err != nil {
			continue
		}
		out = append(out, domain.Card{
			ID:            id,
			Source:        wc.Source,
			PageNumber:    wc.PageNumber,
			ProblemNumber: wc.ProblemNumber,
			Topic:         wc.Topic,
			Level:         wc.Level,
			QuestionImage: wc.QuestionImage,
			AnswerImage:   wc.AnswerImage,
		})
	}
	return out
}
