// Package card implements the card catalog repository using PostgreSQL.
// Fixed-shape queries use raw SQL constants; the catalog listing builds its
// WHERE clause dynamically with squirrel.
package card

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Filter narrows the catalog listing. Nil fields are not applied.
type Filter struct {
	Source   *string
	Topic    *string
	Level    *string
	PageFrom *int
	PageTo   *int
	Limit    int
	Offset   int
}

// Repo provides card catalog persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const cardColumns = `id, source, page_number, problem_number, topic, level,
       question_image, answer_image, created_at`

const getByIDSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = ANY($1::uuid[])`

const createSQL = `
INSERT INTO cards (id, source, page_number, problem_number, topic, level,
                   question_image, answer_image, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + cardColumns

// GetByID returns a card by primary key.
func (r *Repo) GetByID(ctx context.Context, cardID uuid.UUID) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanCard(querier.QueryRow(ctx, getByIDSQL, cardID))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card")
	}

	return c, nil
}

// GetByIDs returns the cards matching the given IDs, in catalog order
// (source, page, problem number). Missing IDs are silently absent from the
// result; callers that care compare lengths.
func (r *Repo) GetByIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.Card, error) {
	if len(cardIDs) == 0 {
		return []domain.Card{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("get cards by ids: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, fmt.Errorf("get cards by ids: %w", err)
	}

	return cards, nil
}

// List returns catalog cards matching the filter, ordered by source, page
// number and problem number so that chunked study walks the book in order.
func (r *Repo) List(ctx context.Context, filter Filter) ([]domain.Card, error) {
	builder := sq.Select("id", "source", "page_number", "problem_number", "topic",
		"level", "question_image", "answer_image", "created_at").
		From("cards").
		OrderBy("source ASC", "page_number ASC NULLS LAST", "problem_number ASC NULLS LAST", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.Source != nil {
		builder = builder.Where(sq.Eq{"source": *filter.Source})
	}
	if filter.Topic != nil {
		builder = builder.Where(sq.Eq{"topic": *filter.Topic})
	}
	if filter.Level != nil {
		builder = builder.Where(sq.Eq{"level": *filter.Level})
	}
	if filter.PageFrom != nil {
		builder = builder.Where(sq.GtOrEq{"page_number": *filter.PageFrom})
	}
	if filter.PageTo != nil {
		builder = builder.Where(sq.LtOrEq{"page_number": *filter.PageTo})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cards query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

// Count returns the number of catalog cards matching the filter,
// ignoring Limit and Offset.
func (r *Repo) Count(ctx context.Context, filter Filter) (int, error) {
	builder := sq.Select("count(*)").
		From("cards").
		PlaceholderFormat(sq.Dollar)

	if filter.Source != nil {
		builder = builder.Where(sq.Eq{"source": *filter.Source})
	}
	if filter.Topic != nil {
		builder = builder.Where(sq.Eq{"topic": *filter.Topic})
	}
	if filter.Level != nil {
		builder = builder.Where(sq.Eq{"level": *filter.Level})
	}
	if filter.PageFrom != nil {
		builder = builder.Where(sq.GtOrEq{"page_number": *filter.PageFrom})
	}
	if filter.PageTo != nil {
		builder = builder.Where(sq.LtOrEq{"page_number": *filter.PageTo})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count cards query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}

	return count, nil
}

// Create inserts a new catalog card and returns the persisted domain.Card.
func (r *Repo) Create(ctx context.Context, card domain.Card) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	created, err := scanCard(querier.QueryRow(ctx, createSQL,
		card.ID, card.Source, card.PageNumber, card.ProblemNumber, card.Topic,
		card.Level, card.QuestionImage, card.AnswerImage, card.CreatedAt))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card")
	}

	return created, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanCard(row pgx.Row) (domain.Card, error) {
	var c domain.Card
	if err := row.Scan(&c.ID, &c.Source, &c.PageNumber, &c.ProblemNumber,
		&c.Topic, &c.Level, &c.QuestionImage, &c.AnswerImage, &c.CreatedAt); err != nil {
		return domain.Card{}, err
	}
	return c, nil
}

func scanCards(rows pgx.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cards == nil {
		cards = []domain.Card{}
	}

	return cards, nil
}
