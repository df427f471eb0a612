package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// Postgres error codes we translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError translates driver-level errors into domain errors so that service
// code never has to import pgx. The entity name is included in the wrapped
// message for log readability.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", entity, domain.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: referenced row missing: %w", entity, domain.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", entity, pgErr.ConstraintName, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", entity, err)
}
