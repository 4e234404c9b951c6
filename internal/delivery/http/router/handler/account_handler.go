// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bazaar/internal/delivery/http/metrics"
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// userView is the outward shape of a user account. The password hash never
// appears in any response.
type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(user *entity.User) userView {
	role, _ := user.Role()

	return userView{
		ID:        user.ID.String(),
		Username:  user.Username,
		Role:      role.String(),
		CreatedAt: user.CreatedAt,
	}
}

// AccountHandler holds dependencies for registration and authentication handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	metrics.RegistrationsTotal.WithLabelValues(input.Role).Inc()

	return response.Success(c, http.StatusCreated, newUserView(user), "Account registered successfully")
}

// Login handles the login request and returns both credentials: the access
// token for Bearer use and the session token the web surface keeps in a
// cookie.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()

		return errors.WithStack(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return response.Success(c, http.StatusOK, map[string]any{
		"access_token":  output.AccessToken,
		"expires_in":    int(output.AccessTokenTTL.Seconds()),
		"session_token": output.SessionToken,
		"user":          newUserView(output.User),
	}, "Login successful")
}

// Logout invalidates the caller's session. The token may arrive either as the
// session cookie or in the JSON body; missing or unknown tokens still succeed
// so that logout is always safe to retry.
func (h *AccountHandler) Logout(c echo.Context) error {
	sessionToken := ""
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		sessionToken = cookie.Value
	}
	if sessionToken == "" {
		var input struct {
			SessionToken string `json:"session_token"`
		}
		if err := c.Bind(&input); err == nil {
			sessionToken = input.SessionToken
		}
	}

	if sessionToken != "" {
		if err := h.uc.Logout(c.Request().Context(), sessionToken); err != nil {
			return errors.WithStack(err)
		}
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
