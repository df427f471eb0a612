package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with a throwaway bcrypt-shaped password hash.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "testuser-" + suffix + "@example.com",
		Username:     "testuser-" + suffix,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         domain.UserRoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedCard creates a fully populated catalog card for the given source and
// page number. Returns the inserted domain.Card.
func SeedCard(t *testing.T, pool *pgxpool.Pool, source string, page int) domain.Card {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)

	problem := fmt.Sprintf("p%d-%s", page, suffix)
	topic := "topic-" + suffix
	level := "B"
	qImage := "cards/" + suffix + "/question.png"
	aImage := "cards/" + suffix + "/answer.png"

	card := domain.Card{
		ID:            uuid.New(),
		Source:        source,
		PageNumber:    &page,
		ProblemNumber: &problem,
		Topic:         &topic,
		Level:         &level,
		QuestionImage: &qImage,
		AnswerImage:   &aImage,
		CreatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO cards (id, source, page_number, problem_number, topic, level,
		                    question_image, answer_image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID, card.Source, card.PageNumber, card.ProblemNumber, card.Topic,
		card.Level, card.QuestionImage, card.AnswerImage, card.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCard insert card: %v", err)
	}

	return card
}

// SeedStudyLog inserts one study log row for the given user and card.
// Returns the inserted domain.StudyLog.
func SeedStudyLog(t *testing.T, pool *pgxpool.Pool, userID, cardID uuid.UUID, result domain.Outcome, mode domain.StudyMode, round int) domain.StudyLog {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	answerTime := 4200

	log := domain.StudyLog{
		ID:           uuid.New(),
		UserID:       userID,
		CardID:       cardID,
		Result:       result,
		Stage:        "algebra1",
		Mode:         mode,
		Round:        round,
		AnswerTimeMs: &answerTime,
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO study_logs (id, user_id, card_id, result, stage, mode, round, answer_time_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID, log.UserID, log.CardID, string(log.Result), log.Stage, string(log.Mode),
		log.Round, log.AnswerTimeMs, log.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStudyLog insert study_log: %v", err)
	}

	return log
}
