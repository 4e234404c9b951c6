// Package middleware provides the HTTP middleware for authentication,
// authorization and error handling.
package middleware

import (
	"net/http"
	"strings"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"
	"bazaar/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the raw session token on the web surface.
const SessionCookieName = "bazaar_session"

// PrincipalContextKey is the Echo context key the resolved principal is stored under.
const PrincipalContextKey = "principal"

// AuthMiddleware resolves the caller's identity from a Bearer access token or
// the session cookie and enforces route-level role requirements.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	accounts usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accounts usecase.AccountUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, accounts: accounts}
}

// GetPrincipal returns the principal resolved by Authenticate, if any.
func GetPrincipal(c echo.Context) (*entity.Principal, bool) {
	principal, ok := c.Get(PrincipalContextKey).(*entity.Principal)

	return principal, ok && principal != nil
}

// Authenticate validates the caller's credentials and stores the Principal on
// the context. Requests with neither a valid Bearer token nor a valid session
// cookie fail with 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolvePrincipal(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}

		c.Set(PrincipalContextKey, principal)

		return next(c)
	}
}

// AuthenticateWeb is the session-cookie variant for the HTML surface: an
// unauthenticated request is redirected to the login page instead of
// receiving a JSON error.
func (m *AuthMiddleware) AuthenticateWeb(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolveSessionCookie(c)
		if err != nil {
			return c.Redirect(http.StatusSeeOther, "/")
		}

		c.Set(PrincipalContextKey, principal)

		return next(c)
	}
}

// TryAuthenticate resolves the principal when credentials are present but
// lets anonymous requests through. Used by routes that are readable by
// anyone yet behave differently for logged-in callers.
func (m *AuthMiddleware) TryAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if principal, err := m.resolvePrincipal(c); err == nil {
			c.Set(PrincipalContextKey, principal)
		}

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the principal's exact role.
// There is no inheritance: an admin does not pass a "user" gate.
// It must be used AFTER Authenticate or AuthenticateWeb.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok || !principal.HasRole || principal.Role != requiredRole {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Permission denied: require '" + requiredRole.String() + "' role",
				})
			}

			return next(c)
		}
	}
}

// resolvePrincipal accepts either credential the API surface supports.
func (m *AuthMiddleware) resolvePrincipal(c echo.Context) (*entity.Principal, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		return m.resolveBearerToken(authHeader)
	}

	return m.resolveSessionCookie(c)
}

func (m *AuthMiddleware) resolveBearerToken(authHeader string) (*entity.Principal, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errors.New("invalid token format, must be Bearer token")
	}

	token, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errInvalidToken
	}

	username, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	role := entity.Role(roleStr)

	return &entity.Principal{
		UserID:   userID,
		Username: username,
		Role:     role,
		HasRole:  role.IsValid(),
	}, nil
}

func (m *AuthMiddleware) resolveSessionCookie(c echo.Context) (*entity.Principal, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, errMissingSession
	}

	principal, err := m.accounts.ResolveSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, errInvalidSession
	}

	return principal, nil
}

var (
	errInvalidToken   = errors.New("invalid or expired token")
	errMissingSession = errors.New("authentication required")
	errInvalidSession = errors.New("session is invalid or expired")
)
