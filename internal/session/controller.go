// Package session implements the study session controller: the state machine
// that walks a learner through a shuffled deck, records per-card outcomes,
// relays them to the result-logging service, and resolves end-of-deck
// behavior from the service's authoritative response.
//
// The controller's fields are the single source of truth for position and
// answer visibility; the presenter is a one-directional consumer and never a
// secondary state source.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// State identifies the controller's position in the card-presentation cycle.
type State string

const (
	StateShowingQuestion State = "showing_question"
	StateShowingAnswer   State = "showing_answer"
	StateExhausted       State = "exhausted"
)

// Presenter renders the current card and executes terminal actions. All
// visibility and DOM-equivalent concerns live behind this interface; the
// controller owns no rendering details.
type Presenter interface {
	RenderCard(card domain.Card, side domain.CardSide)
	ShowMessage(text string)
	NavigateTo(url string)
}

// resultReporter relays outcomes to the result-logging service.
// ReportAsync must not block on network I/O; ReportAndAwait is used for the
// deck's final card, whose response decides the session's next step.
type resultReporter interface {
	ReportAsync(ctx context.Context, report domain.OutcomeReport)
	ReportAndAwait(ctx context.Context, report domain.OutcomeReport) (*domain.ReportDecision, error)
}

// deckBuilder produces the randomized working order for one round.
type deckBuilder interface {
	Shuffle(cards []domain.Card) []domain.Card
}

// Config holds the session parameters supplied by the host.
type Config struct {
	Mode  domain.StudyMode
	Stage string

	// PrepareURL is the preparation/menu screen to navigate to when the
	// session is fully done.
	PrepareURL string

	// ReloadURL restarts the study page to fetch a fresh practice deck when
	// the server signals continuation without supplying cards inline.
	ReloadURL string

	// FinalReportTimeout bounds the wait for the final-card response so a
	// hung request cannot strand the learner. Zero means 10 seconds.
	FinalReportTimeout time.Duration
}

const defaultFinalReportTimeout = 10 * time.Second

// Controller is the session state machine. All methods are safe for
// interleaved calls; a single busy flag rejects re-entrant submissions while
// a final-card report is in flight.
type Controller struct {
	log       *slog.Logger
	presenter Presenter
	reporter  resultReporter
	decks     deckBuilder
	cfg       Config

	// rawCards is the original session content, kept unshuffled.
	rawCards []domain.Card

	mu            sync.Mutex
	deck          []domain.Card
	position      int
	answerVisible bool
	outcomes      map[uuid.UUID]domain.Outcome
	round         int
	cardShownAt   time.Time
	busy          bool

	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

// NewController creates a session controller over the given cards. Call
// Start to begin the first round.
func NewController(
	log *slog.Logger,
	presenter Presenter,
	reporter resultReporter,
	decks deckBuilder,
	cfg Config,
	cards []domain.Card,
) *Controller {
	if cfg.FinalReportTimeout <= 0 {
		cfg.FinalReportTimeout = defaultFinalReportTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	raw := make([]domain.Card, len(cards))
	copy(raw, cards)

	return &Controller{
		log:       log.With("component", "session"),
		presenter: presenter,
		reporter:  reporter,
		decks:     decks,
		cfg:       cfg,
		rawCards:  raw,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins round 1 with a shuffled deck and presents the first question.
// An empty card list is not an error: the controller goes straight to
// Exhausted and issues terminal guidance.
func (c *Controller) Start() {
	c.mu.Lock()
	c.startRoundLocked(c.decks.Shuffle(c.rawCards))
	empty := len(c.deck) == 0
	c.mu.Unlock()

	if empty {
		c.log.Info("session started with empty deck", slog.String("stage", c.cfg.Stage))
		c.presenter.ShowMessage("学習するカードがありません")
		c.presenter.NavigateTo(c.cfg.PrepareURL)
		return
	}

	c.renderCurrent()
}

// startRoundLocked resets per-round state around a new deck. Caller holds mu.
func (c *Controller) startRoundLocked(deck []domain.Card) {
	c.deck = deck
	c.position = 0
	c.answerVisible = false
	c.outcomes = make(map[uuid.UUID]domain.Outcome, len(deck))
	c.round++
	c.cardShownAt = time.Now()
}

// Current returns the card under study, or nil when the deck is exhausted.
func (c *Controller) Current() *domain.Card {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.position >= len(c.deck) {
		return nil
	}
	card := c.deck[c.position]
	return &card
}

// State returns the controller's presentation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.position >= len(c.deck):
		return StateExhausted
	case c.answerVisible:
		return StateShowingAnswer
	default:
		return StateShowingQuestion
	}
}

// Round returns the 1-based practice round number.
func (c *Controller) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Outcome returns the recorded outcome for a card in the current round.
func (c *Controller) Outcome(cardID uuid.UUID) (domain.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.outcomes[cardID]
	return o, ok
}

// ToggleAnswer flips the current card between its question and answer side.
// Returns ErrSessionExhausted past the end of the deck and ErrSessionBusy
// while a final-card report is in flight; both are droppable no-ops.
func (c *Controller) ToggleAnswer() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrSessionBusy
	}
	if c.position >= len(c.deck) {
		c.mu.Unlock()
		return domain.ErrSessionExhausted
	}

	c.answerVisible = !c.answerVisible
	card := c.deck[c.position]
	side := domain.CardSideQuestion
	if c.answerVisible {
		side = domain.CardSideAnswer
	}
	c.mu.Unlock()

	c.presenter.RenderCard(card, side)
	return nil
}

// Submit records the outcome for the current card and advances the session.
//
// Non-final cards: the outcome is reported in the background and the local
// advance happens immediately; a report failure never blocks progression.
// The final card's report is awaited (bounded by FinalReportTimeout) because
// the server is authoritative about whether retry rounds remain.
func (c *Controller) Submit(result domain.Outcome) error {
	if !result.IsValid() {
		return domain.NewValidationError("result", "must be known or unknown")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrSessionBusy
	}
	if c.position >= len(c.deck) {
		c.mu.Unlock()
		return domain.ErrSessionExhausted
	}

	card := c.deck[c.position]
	c.outcomes[card.ID] = result

	elapsed := int(time.Since(c.cardShownAt).Milliseconds())
	final := c.position+1 >= len(c.deck)

	report := domain.OutcomeReport{
		CardID:       card.ID,
		Result:       result,
		AnswerTimeMs: &elapsed,
		Final:        final,
		Context: domain.ReportContext{
			Stage: c.cfg.Stage,
			Mode:  c.cfg.Mode,
			Round: c.round,
		},
	}

	if !final {
		// Advance before the report is delivered: card N's local transition
		// never waits on the network.
		c.position++
		c.answerVisible = false
		c.cardShownAt = time.Now()
		next := c.deck[c.position]
		c.mu.Unlock()

		c.reportAsync(report)
		c.presenter.RenderCard(next, domain.CardSideQuestion)
		return nil
	}

	// Final card: the interval until the response is a critical section.
	c.busy = true
	c.position++
	c.answerVisible = false
	c.mu.Unlock()

	c.finishDeck(report)
	return nil
}

// reportAsync delivers a non-final outcome in the background. Errors are
// logged and otherwise ignored: the learner has already moved on.
func (c *Controller) reportAsync(report domain.OutcomeReport) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.reporter.ReportAsync(c.ctx, report)
	}()
}

// finishDeck awaits the final-card report and resolves the session's next
// step from the server's decision. Every failure path degrades to a default
// terminal action so the learner is never stuck.
func (c *Controller) finishDeck(report domain.OutcomeReport) {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.FinalReportTimeout)
	defer cancel()

	decision, err := c.reporter.ReportAndAwait(ctx, report)

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("final report failed, applying default policy",
			slog.String("card_id", report.CardID.String()),
			slog.String("error", err.Error()),
		)
		c.applyDefaultPolicy()
		return
	}

	c.applyDecision(decision)
}

func (c *Controller) applyDecision(decision *domain.ReportDecision) {
	if decision == nil {
		c.applyDefaultPolicy()
		return
	}

	switch {
	case decision.RedirectToPrepare:
		if decision.Message != "" {
			c.presenter.ShowMessage(decision.Message)
		}
		c.log.Info("session complete",
			slog.String("mode", c.cfg.Mode.String()),
			slog.Int("rounds", c.roundSnapshot()),
		)
		c.presenter.NavigateTo(c.cfg.PrepareURL)

	case len(decision.NextCards) > 0 && c.cfg.Mode.IsPractice():
		// Fast continue: the server supplied the retry deck inline.
		c.mu.Lock()
		c.startRoundLocked(c.decks.Shuffle(decision.NextCards))
		round := c.round
		c.mu.Unlock()

		c.log.Info("practice round started",
			slog.Int("round", round),
			slog.Int("cards", len(decision.NextCards)),
		)
		c.renderCurrent()

	case decision.Remaining > 0 && c.cfg.Mode.IsPractice():
		// Continuation without inline cards: reload for a fresh deck.
		c.presenter.NavigateTo(c.cfg.ReloadURL)

	default:
		c.applyDefaultPolicy()
	}
}

// applyDefaultPolicy is the fallback for errors and ambiguous responses:
// practice reloads, test returns to the preparation screen.
func (c *Controller) applyDefaultPolicy() {
	if c.cfg.Mode.IsPractice() {
		c.presenter.NavigateTo(c.cfg.ReloadURL)
		return
	}
	c.presenter.NavigateTo(c.cfg.PrepareURL)
}

func (c *Controller) renderCurrent() {
	c.mu.Lock()
	if c.position >= len(c.deck) {
		c.mu.Unlock()
		return
	}
	card := c.deck[c.position]
	c.mu.Unlock()

	c.presenter.RenderCard(card, domain.CardSideQuestion)
}

func (c *Controller) roundSnapshot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Close aborts in-flight reports and waits for background deliveries to
// drain. It is the page-unload analogue: no retry-after-cancel semantics.
func (c *Controller) Close() error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(time.Second):
		return errors.New("session close: pending reports did not drain")
	}
}
