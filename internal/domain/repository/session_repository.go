package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"
)

// Session lookup failures.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionRepository defines the operations for server-side session records.
type SessionRepository interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a session by its token hash. Returns
	// ErrSessionExpired when the record exists but is past its expiry.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash removes a session by its token hash. Deleting an
	// unknown hash is not an error, which keeps logout idempotent.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}
