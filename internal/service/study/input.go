package study

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// RecordResultInput holds parameters for recording one reported outcome.
type RecordResultInput struct {
	CardID       uuid.UUID
	Result       domain.Outcome
	Stage        string
	Mode         domain.StudyMode
	Round        int
	AnswerTimeMs *int

	// Final marks the last card of the client's deck. Only final reports
	// get a continuation decision computed.
	Final bool
}

// Validate validates the record result input.
func (i RecordResultInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}

	if !i.Result.IsValid() {
		errs = append(errs, domain.FieldError{Field: "result", Message: "must be 'known' or 'unknown'"})
	}

	if i.Stage == "" {
		errs = append(errs, domain.FieldError{Field: "stage", Message: "required"})
	} else if len(i.Stage) > 128 {
		errs = append(errs, domain.FieldError{Field: "stage", Message: "too long"})
	}

	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "unknown study mode"})
	}

	if i.Round < 1 {
		errs = append(errs, domain.FieldError{Field: "round", Message: "must be at least 1"})
	}

	if i.AnswerTimeMs != nil && *i.AnswerTimeMs < 0 {
		errs = append(errs, domain.FieldError{Field: "answer_time_ms", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListCardsInput holds parameters for fetching a study deck from the catalog.
type ListCardsInput struct {
	Source   string
	Topic    *string
	Level    *string
	PageFrom *int
	PageTo   *int

	// ChunkSize > 0 slices the filtered catalog into fixed-size chunks and
	// returns the chunk at ChunkIndex (zero-based). Zero means no chunking.
	ChunkSize  int
	ChunkIndex int
}

// Validate validates the list cards input.
func (i ListCardsInput) Validate() error {
	var errs []domain.FieldError

	if i.Source == "" {
		errs = append(errs, domain.FieldError{Field: "source", Message: "required"})
	} else if len(i.Source) > 128 {
		errs = append(errs, domain.FieldError{Field: "source", Message: "too long"})
	}

	if i.PageFrom != nil && *i.PageFrom < 0 {
		errs = append(errs, domain.FieldError{Field: "page_from", Message: "must be non-negative"})
	}
	if i.PageTo != nil && *i.PageTo < 0 {
		errs = append(errs, domain.FieldError{Field: "page_to", Message: "must be non-negative"})
	}
	if i.PageFrom != nil && i.PageTo != nil && *i.PageFrom > *i.PageTo {
		errs = append(errs, domain.FieldError{Field: "page_from", Message: "must not exceed page_to"})
	}

	if i.ChunkSize < 0 {
		errs = append(errs, domain.FieldError{Field: "chunk_size", Message: "must be non-negative"})
	}
	if i.ChunkIndex < 0 {
		errs = append(errs, domain.FieldError{Field: "chunk_index", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
