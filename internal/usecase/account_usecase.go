// Package usecase defines the application's business operation interfaces and
// their input/output shapes.
package usecase

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"
)

// RegisterInput carries the registration payload. The role is chosen at
// registration, exactly as the sign-up form offers it.
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" form:"password" validate:"required,min=4"`
	Role     string `json:"role" form:"role" validate:"required,oneof=admin user"`
}

// LoginInput carries the login payload.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginOutput carries the credentials established by a successful login.
// AccessToken serves the API surface; SessionToken is the raw value the web
// surface stores in the session cookie.
type LoginOutput struct {
	AccessToken    string
	AccessTokenTTL time.Duration
	SessionToken   string
	User           *entity.User
}

// AccountUsecase defines registration, authentication and session resolution.
type AccountUsecase interface {
	// Register creates a User and its role Profile atomically.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// Login verifies credentials and establishes a session. Failure is always
	// ErrInvalidCredentials, never revealing whether the username exists.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout invalidates the session behind the raw token. Idempotent.
	Logout(ctx context.Context, sessionToken string) error

	// ResolveSession maps a raw session token to the authenticated Principal.
	ResolveSession(ctx context.Context, sessionToken string) (*entity.Principal, error)
}
