package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/infra/auth"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountUsecase struct {
	mock.Mock
}

func (m *mockAccountUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockAccountUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *mockAccountUsecase) Logout(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}

func (m *mockAccountUsecase) ResolveSession(ctx context.Context, sessionToken string) (*entity.Principal, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Principal), args.Error(1)
}

func newTestAuthMiddleware(t *testing.T, accounts usecase.AccountUsecase) *AuthMiddleware {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: time.Minute}

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc, accounts)
}

func echoedPrincipal(c echo.Context) error {
	principal, ok := GetPrincipal(c)
	if !ok {
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"username": principal.Username,
		"role":     principal.Role.String(),
	})
}

func TestAuthenticate_BearerToken(t *testing.T) {
	t.Parallel()

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenSvc.GenerateAccessToken(uuid.New(), "alice", entity.RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	require.NoError(t, m.Authenticate(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestAuthenticate_BadToken(t *testing.T) {
	t.Parallel()

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	require.NoError(t, m.Authenticate(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_SessionCookie(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	m := newTestAuthMiddleware(t, accounts)

	accounts.On("ResolveSession", mock.Anything, "raw-session").Return(&entity.Principal{
		UserID:   uuid.New(),
		Username: "bob",
		Role:     entity.RoleUser,
		HasRole:  true,
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "raw-session"})
	rec := httptest.NewRecorder()

	require.NoError(t, m.Authenticate(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	t.Parallel()

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, m.Authenticate(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWeb_RedirectsWithoutSession(t *testing.T) {
	t.Parallel()

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin-page", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, m.AuthenticateWeb(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestAuthenticateWeb_ExpiredSessionRedirects(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	m := newTestAuthMiddleware(t, accounts)

	accounts.On("ResolveSession", mock.Anything, "stale").Return(nil, domainerrors.ErrSessionExpired)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user-page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()

	require.NoError(t, m.AuthenticateWeb(echoedPrincipal)(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRequireRole_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal *entity.Principal
		required  entity.Role
		wantCode  int
	}{
		{
			name:      "admin passes admin gate",
			principal: &entity.Principal{Role: entity.RoleAdmin, HasRole: true},
			required:  entity.RoleAdmin,
			wantCode:  http.StatusOK,
		},
		{
			name:      "user passes user gate",
			principal: &entity.Principal{Role: entity.RoleUser, HasRole: true},
			required:  entity.RoleUser,
			wantCode:  http.StatusOK,
		},
		{
			// Roles do not inherit: admin is not a superset of user.
			name:      "admin rejected from user gate",
			principal: &entity.Principal{Role: entity.RoleAdmin, HasRole: true},
			required:  entity.RoleUser,
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "user rejected from admin gate",
			principal: &entity.Principal{Role: entity.RoleUser, HasRole: true},
			required:  entity.RoleAdmin,
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "roleless principal rejected",
			principal: &entity.Principal{HasRole: false},
			required:  entity.RoleUser,
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "missing principal rejected",
			principal: nil,
			required:  entity.RoleUser,
			wantCode:  http.StatusForbidden,
		},
	}

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.principal != nil {
				c.Set(PrincipalContextKey, tt.principal)
			}

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

			require.NoError(t, m.RequireRole(tt.required)(next)(c))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestTryAuthenticate_AnonymousPassesThrough(t *testing.T) {
	t.Parallel()

	m := newTestAuthMiddleware(t, new(mockAccountUsecase))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	next := func(c echo.Context) error {
		_, ok := GetPrincipal(c)
		assert.False(t, ok)

		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, m.TryAuthenticate(next)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
