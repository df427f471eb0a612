package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/internal/service/study"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// studyService defines the minimal interface needed by StudyHandler.
type studyService interface {
	RecordResult(ctx context.Context, userID uuid.UUID, input study.RecordResultInput) (*study.RecordResultOutput, error)
	ListCards(ctx context.Context, input study.ListCardsInput) (*study.Deck, error)
}

// StudyHandler serves the study REST endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

// resultRequest mirrors the body the study client posts for every outcome.
type resultRequest struct {
	CardID       string `json:"card_id"`
	Result       string `json:"result"`
	Stage        string `json:"stage"`
	Mode         string `json:"mode"`
	Round        int    `json:"round"`
	AnswerTimeMs *int   `json:"answer_time_ms,omitempty"`
	Final        bool   `json:"final"`
}

type resultResponse struct {
	Success           bool       `json:"success"`
	RedirectToPrepare bool       `json:"redirect_to_prepare"`
	Message           string     `json:"message,omitempty"`
	RemainingCount    int        `json:"remaining_count"`
	NextCards         []wireCard `json:"next_cards,omitempty"`
}

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

type deckResponse struct {
	Cards []wireCard `json:"cards"`
	Total int        `json:"total"`
}

// RecordResult handles POST /api/study/results.
func (h *StudyHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card_id")
		return
	}

	round := req.Round
	if round == 0 {
		round = 1
	}

	out, err := h.svc.RecordResult(r.Context(), userID, study.RecordResultInput{
		CardID:       cardID,
		Result:       domain.Outcome(req.Result),
		Stage:        req.Stage,
		Mode:         domain.StudyMode(req.Mode),
		Round:        round,
		AnswerTimeMs: req.AnswerTimeMs,
		Final:        req.Final,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := resultResponse{Success: true}
	if out.Decision != nil {
		resp.RedirectToPrepare = out.Decision.RedirectToPrepare
		resp.Message = out.Decision.Message
		resp.RemainingCount = out.Decision.Remaining
		resp.NextCards = toWireCards(out.Decision.NextCards)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListCards handles GET /api/study/cards.
func (h *StudyHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()

	input := study.ListCardsInput{
		Source: q.Get("source"),
		Topic:  optionalString(q.Get("topic")),
		Level:  optionalString(q.Get("level")),
	}

	var err error
	if input.PageFrom, err = optionalInt(q.Get("page_from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page_from")
		return
	}
	if input.PageTo, err = optionalInt(q.Get("page_to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page_to")
		return
	}

	if raw := q.Get("chunk_size"); raw != "" {
		if input.ChunkSize, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid chunk_size")
			return
		}
	}
	if raw := q.Get("chunk_index"); raw != "" {
		if input.ChunkIndex, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid chunk_index")
			return
		}
	}

	deck, err := h.svc.ListCards(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deckResponse{
		Cards: toWireCards(deck.Cards),
		Total: deck.Total,
	})
}

func (h *StudyHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func toWireCards(cards []domain.Card) []wireCard {
	if len(cards) == 0 {
		return nil
	}
	out := make([]wireCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, wireCard{
			ID:            c.ID.String(),
			Source:        c.Source,
			PageNumber:    c.PageNumber,
			ProblemNumber: c.ProblemNumber,
			Topic:         c.Topic,
			Level:         c.Level,
			QuestionImage: c.QuestionImage,
			AnswerImage:   c.AnswerImage,
		})
	}
	return out
}
