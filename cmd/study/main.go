// Command study runs an interactive terminal study session against a
// flashdeck server.
//
// Usage:
//
//	study --server=http://localhost:8080 --email=me@example.com --password=secret \
//	      --source=geometry2 --mode=practice
//
// Keys: enter flips the card, k marks it known, u marks it unknown, q quits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/flashdeck-backend/internal/deck"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/internal/reporter"
	"github.com/heartmarshall/flashdeck-backend/internal/session"
)

// Navigation sentinels. The controller treats destinations as opaque; in the
// terminal client they select between ending the session and refetching the
// deck for another pass.
const (
	navPrepare = "prepare"
	navReload  = "reload"
)

func main() {
	var (
		server     = flag.String("server", "http://localhost:8080", "flashdeck server base URL")
		email      = flag.String("email", "", "account email")
		password   = flag.String("password", "", "account password")
		source     = flag.String("source", "", "card source to study")
		stage      = flag.String("stage", "", "stage label for progress scoping (defaults to source)")
		mode       = flag.String("mode", "practice", "study mode: test, practice, or chunk_practice")
		topic      = flag.String("topic", "", "optional topic filter")
		level      = flag.String("level", "", "optional level filter")
		pageFrom   = flag.Int("page-from", 0, "optional lower page bound")
		pageTo     = flag.Int("page-to", 0, "optional upper page bound")
		chunkSize  = flag.Int("chunk-size", 0, "cards per chunk (chunk_practice)")
		chunkIndex = flag.Int("chunk-index", 0, "zero-based chunk to study (chunk_practice)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *email == "" || *password == "" || *source == "" {
		fmt.Fprintln(os.Stderr, "Usage: study --server=URL --email=... --password=... --source=...")
		os.Exit(1)
	}

	studyMode := domain.StudyMode(*mode)
	if !studyMode.IsValid() {
		log.Fatalf("invalid mode %q", *mode)
	}
	if *stage == "" {
		*stage = *source
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx := context.Background()

	api := newAPIClient(*server)
	if err := api.login(ctx, *email, *password); err != nil {
		log.Fatalf("login: %v", err)
	}

	query := deckQuery{
		Source:     *source,
		Topic:      *topic,
		Level:      *level,
		PageFrom:   *pageFrom,
		PageTo:     *pageTo,
		ChunkSize:  *chunkSize,
		ChunkIndex: *chunkIndex,
	}

	cfg := session.Config{
		Mode:       studyMode,
		Stage:      *stage,
		PrepareURL: navPrepare,
		ReloadURL:  navReload,
	}

	lines := readLines(os.Stdin)

	// Each pass fetches a fresh deck and runs one controller until it issues
	// a terminal navigation. A reload destination starts another pass.
	for {
		cards, total, err := api.fetchDeck(ctx, query)
		if err != nil {
			log.Fatalf("fetch deck: %v", err)
		}
		fmt.Printf("deck: %d cards (%d total in scope)\n", len(cards), total)

		dest := runSession(logger, api, cfg, cards, lines)
		if dest != navReload {
			return
		}
	}
}

// runSession drives one controller to completion and returns the navigation
// destination it ended with, or empty when the learner quit.
func runSession(logger *slog.Logger, api *apiClient, cfg session.Config, cards []domain.Card, lines <-chan string) string {
	presenter := newTermPresenter(os.Stdout)
	rep := reporter.NewClient(logger, api.resultsURL(), api.token)

	ctrl := session.NewController(logger, presenter, rep, deck.New(), cfg, cards)
	defer ctrl.Close()

	ctrl.Start()

	for {
		select {
		case dest := <-presenter.nav:
			return dest

		case line, ok := <-lines:
			if !ok {
				return ""
			}
			var err error
			switch line {
			case "", "a":
				err = ctrl.ToggleAnswer()
			case "k":
				err = ctrl.Submit(domain.OutcomeKnown)
			case "u":
				err = ctrl.Submit(domain.OutcomeUnknown)
			case "q":
				return ""
			default:
				fmt.Println("keys: enter flips, k known, u unknown, q quits")
			}
			if err != nil {
				logger.Debug("input ignored", slog.String("error", err.Error()))
			}

			// A final-card submission resolves its navigation synchronously.
			select {
			case dest := <-presenter.nav:
				return dest
			default:
			}
		}
	}
}

// readLines feeds stdin lines into a channel so input can be multiplexed
// with presenter navigation. The channel closes on EOF.
func readLines(f *os.File) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			out <- sc.Text()
		}
	}()
	return out
}
