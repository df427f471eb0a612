package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is one immutable question/answer study unit. Cards are created from
// server-supplied catalog data at session start and never mutated.
type Card struct {
	ID            uuid.UUID
	Source        string
	PageNumber    *int
	ProblemNumber *string
	Topic         *string
	Level         *string
	QuestionImage *string
	AnswerImage   *string
	CreatedAt     time.Time
}

// Label returns the short human-readable identifier shown above the question,
// assembled from problem number and topic. Empty when neither is set.
func (c *Card) Label() string {
	switch {
	case c.ProblemNumber != nil && c.Topic != nil:
		return *c.ProblemNumber + " " + *c.Topic
	case c.ProblemNumber != nil:
		return *c.ProblemNumber
	case c.Topic != nil:
		return *c.Topic
	}
	return ""
}

// Asset returns the image reference for the given side, or nil when the side
// has no content. A missing side is tolerated: nothing is rendered for it.
func (c *Card) Asset(side CardSide) *string {
	if side == CardSideAnswer {
		return c.AnswerImage
	}
	return c.QuestionImage
}

// StudyLog records a single reported outcome for a card.
type StudyLog struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CardID       uuid.UUID
	Result       Outcome
	Stage        string
	Mode         StudyMode
	Round        int
	AnswerTimeMs *int
	CreatedAt    time.Time
}
