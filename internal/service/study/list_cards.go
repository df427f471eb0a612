package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
)

// ListCards fetches one study deck from the catalog. The result is in stable
// catalog order; shuffling is the client's job.
func (s *Service) ListCards(ctx context.Context, input ListCardsInput) (*Deck, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	filter := card.Filter{
		Topic:    input.Topic,
		Level:    input.Level,
		PageFrom: input.PageFrom,
		PageTo:   input.PageTo,
	}
	filter.Source = &input.Source

	total, err := s.cards.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("study.ListCards count: %w", err)
	}

	chunkSize := input.ChunkSize
	if chunkSize == 0 && input.ChunkIndex > 0 {
		chunkSize = s.cfg.DefaultChunkSize
	}

	if chunkSize > 0 {
		filter.Limit = chunkSize
		filter.Offset = chunkSize * input.ChunkIndex
	}
	if filter.Limit == 0 || filter.Limit > s.cfg.MaxCardsPerFetch {
		filter.Limit = s.cfg.MaxCardsPerFetch
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("study.ListCards list: %w", err)
	}

	s.log.InfoContext(ctx, "deck fetched",
		slog.String("source", input.Source),
		slog.Int("cards", len(cards)),
		slog.Int("total", total))

	return &Deck{Cards: cards, Total: total}, nil
}
