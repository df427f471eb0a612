package domain

import "github.com/google/uuid"

// ReportContext carries the opaque session fields forwarded with every
// outcome report. The reporter does not interpret them; the server uses them
// to scope progress queries.
type ReportContext struct {
	Stage string
	Mode  StudyMode
	Round int
}

// OutcomeReport is one outcome submission to the result-logging service.
type OutcomeReport struct {
	CardID       uuid.UUID
	Result       Outcome
	Context      ReportContext
	AnswerTimeMs *int

	// Final marks the last card of a deck. The server answers a final report
	// with a ReportDecision; non-final reports are fire-and-forget.
	Final bool
}

// ReportDecision is the server's authoritative instruction for what happens
// after the final card of a deck has been reported.
type ReportDecision struct {
	// RedirectToPrepare signals that the session is fully done and the
	// learner should return to the preparation screen.
	RedirectToPrepare bool

	// Message is an optional completion message to show before navigating.
	Message string

	// Remaining is the number of cards still marked unknown in this round.
	Remaining int

	// NextCards, when non-empty, is the inline deck for the next practice
	// round. When practice continues but NextCards is empty the client falls
	// back to a full reload to fetch the fresh deck.
	NextCards []Card
}

// PracticeContinues reports whether the decision asks for another round.
func (d *ReportDecision) PracticeContinues() bool {
	return !d.RedirectToPrepare && (len(d.NextCards) > 0 || d.Remaining > 0)
}
