package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazaar/internal/delivery/http/validator"
	"bazaar/internal/domain/entity"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func TestAccountHandler_Register_Success(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	h := NewAccountHandler(accounts, discardLogger())

	userID := uuid.New()
	accounts.On("Register", mock.Anything, mock.MatchedBy(func(in *usecase.RegisterInput) bool {
		return in.Username == "alice" && in.Role == "user"
	})).Return(&entity.User{
		ID:       userID,
		Username: "alice",
		Profile:  &entity.Profile{UserID: userID, Role: entity.RoleUser},
	}, nil)

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/api/register", `{"username":"alice","password":"hunter2","role":"user"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Register(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)
	assert.NotContains(t, rec.Body.String(), "PasswordHash")
}

func TestAccountHandler_Register_InvalidPayload(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	h := NewAccountHandler(accounts, discardLogger())

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/api/register", `{"username":"alice","password":"pw","role":"superuser"}`)
	rec := httptest.NewRecorder()

	err := h.Register(e.NewContext(req, rec))

	require.Error(t, err)
	accounts.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAccountHandler_Login_Success(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	h := NewAccountHandler(accounts, discardLogger())

	userID := uuid.New()
	accounts.On("Login", mock.Anything, mock.Anything).Return(&usecase.LoginOutput{
		AccessToken:  "signed-jwt",
		SessionToken: "raw-session",
		User: &entity.User{
			ID:       userID,
			Username: "alice",
			Profile:  &entity.Profile{UserID: userID, Role: entity.RoleAdmin},
		},
	}, nil)

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/api/login", `{"username":"alice","password":"hunter2"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Login(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"signed-jwt"`)
	assert.Contains(t, rec.Body.String(), `"session_token":"raw-session"`)
}

func TestAccountHandler_Logout_WithCookie(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	h := NewAccountHandler(accounts, discardLogger())

	accounts.On("Logout", mock.Anything, "raw-session").Return(nil)

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/api/logout", "")
	req.AddCookie(&http.Cookie{Name: "bazaar_session", Value: "raw-session"})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	accounts.AssertExpectations(t)
}

func TestAccountHandler_Logout_WithoutSession(t *testing.T) {
	t.Parallel()

	accounts := new(mockAccountUsecase)
	h := NewAccountHandler(accounts, discardLogger())

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/api/logout", `{}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	accounts.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, HealthCheck(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
