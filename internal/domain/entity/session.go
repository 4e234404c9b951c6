package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side record binding a cookie to an authenticated User.
// Only a SHA-256 hash of the raw token is stored; the raw value lives in the
// client cookie and is hashed again on every lookup.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Principal identifies the authenticated caller of a request. It is resolved
// once by the auth middleware and passed explicitly into service calls instead
// of relying on ambient request state.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	HasRole  bool // False when the user exists without a profile.
}
