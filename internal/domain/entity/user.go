// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can authenticate against the platform. The password
// hash never leaves the persistence and account layers.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Username     string    // Unique login name, also used as the public display name on reviews.
	PasswordHash string    // bcrypt hash of the user's password. Never serialized outward.
	Profile      *Profile  // The role-carrying profile. Nil only when the dual-write gap of a legacy import left a user without one.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// Role resolves the user's role. A user without a profile has no role and
// therefore fails every role-gated check instead of crashing the request.
func (u *User) Role() (Role, bool) {
	if u == nil || u.Profile == nil {
		return "", false
	}

	return u.Profile.Role, true
}

// Profile is the role record attached one-to-one to a User. It is created in
// the same transaction as the User and is immutable afterwards.
type Profile struct {
	UserID    uuid.UUID // Foreign key linking this profile to its User.
	Role      Role      // admin or user.
	CreatedAt time.Time
	UpdatedAt time.Time
}
