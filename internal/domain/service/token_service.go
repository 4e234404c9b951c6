package service

import (
	"time"

	"bazaar/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates the stateless access tokens used by the
// JSON API surface. Cookie sessions are a separate, stateful concern handled
// by the SessionRepository.
type TokenService interface {
	// GenerateAccessToken creates a signed token carrying the user id,
	// username and role.
	GenerateAccessToken(userID uuid.UUID, username string, role entity.Role) (string, error)

	// ValidateToken checks a token string and returns the parsed token.
	ValidateToken(tokenString string) (*jwt.Token, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration
}
