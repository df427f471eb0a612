// Package studylog implements the study log repository using PostgreSQL.
package studylog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Repo provides study log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new study log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO study_logs (id, user_id, card_id, result, stage, mode, round, answer_time_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, user_id, card_id, result, stage, mode, round, answer_time_ms, created_at`

// unknownCardIDsSQL takes the latest report per card within one round and
// keeps only those whose final verdict was 'unknown'. A later 'known' report
// for the same card overrides an earlier 'unknown'.
const unknownCardIDsSQL = `
SELECT card_id FROM (
    SELECT DISTINCT ON (card_id) card_id, result
    FROM study_logs
    WHERE user_id = $1 AND stage = $2 AND mode = $3 AND round = $4
    ORDER BY card_id, created_at DESC, id DESC
) latest
WHERE latest.result = 'unknown'`

const purgeSQL = `
DELETE FROM study_logs
WHERE created_at < $1`

// Create inserts a study log row and returns the persisted record.
// An unknown card or user surfaces as domain.ErrNotFound via the FK mapping.
func (r *Repo) Create(ctx context.Context, log domain.StudyLog) (domain.StudyLog, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	var created domain.StudyLog
	var result, mode string
	err := querier.QueryRow(ctx, createSQL,
		log.ID, log.UserID, log.CardID, string(log.Result), log.Stage,
		string(log.Mode), log.Round, log.AnswerTimeMs, log.CreatedAt,
	).Scan(&created.ID, &created.UserID, &created.CardID, &result, &created.Stage,
		&mode, &created.Round, &created.AnswerTimeMs, &created.CreatedAt)
	if err != nil {
		return domain.StudyLog{}, postgres.MapError(err, "study_log")
	}

	created.Result = domain.Outcome(result)
	created.Mode = domain.StudyMode(mode)

	return created, nil
}

// UnknownCardIDs returns the cards whose latest outcome in the given round of
// a session scope is 'unknown'. The order is unspecified; callers shuffle.
func (r *Repo) UnknownCardIDs(ctx context.Context, userID uuid.UUID, stage string, mode domain.StudyMode, round int) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, unknownCardIDsSQL, userID, stage, string(mode), round)
	if err != nil {
		return nil, fmt.Errorf("query unknown card ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unknown card id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unknown card ids: %w", err)
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}

// PurgeOlderThan deletes study logs created before the cutoff and returns the
// number of rows removed.
func (r *Repo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, purgeSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge study logs: %w", err)
	}

	return tag.RowsAffected(), nil
}
