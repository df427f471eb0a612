package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated learner. Outcome reports are attributed to a user.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
