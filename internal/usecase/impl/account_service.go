// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"bazaar/config"
	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const sessionTokenBytes = 32

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      service.PasswordHasher
	tokenSvc    service.TokenService
	sessionTTL  time.Duration
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Hasher      service.PasswordHasher
	TokenSvc    service.TokenService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	sessionTTL := 24 * time.Hour
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.SessionTTL > 0 {
		sessionTTL = params.Config.Auth.SessionTTL
	}

	return &accountService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		sessionRepo: params.SessionRepo,
		hasher:      params.Hasher,
		tokenSvc:    params.TokenSvc,
		sessionTTL:  sessionTTL,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a User and its role Profile in one transaction, so a
// partial failure can never leave a user without a profile.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	role := entity.Role(input.Role)
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username), slog.Any("role", role))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Profile:      &entity.Profile{Role: role},
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Pre-check inside the transaction keeps the common failure friendly;
		// the unique constraint on username closes the remaining race.
		_, findErr := userRepo.FindByUsername(ctx, input.Username)
		if findErr == nil {
			return domainerrors.ErrUsernameTaken.WrapMessage("username already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check username availability")
		}

		return userRepo.Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID), slog.Any("role", role))

	return newUser, nil
}

// Login verifies the credential and establishes both an access token and a
// server-side session bound to the user.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same failure as a bad password: never reveal whether the
			// username exists.
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// bcrypt comparison is constant time with respect to the hash.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	role, _ := user.Role()

	accessToken, err := srv.tokenSvc.GenerateAccessToken(user.ID, user.Username, role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	sessionToken, err := generateSessionToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	session := &entity.Session{
		UserID:    user.ID,
		TokenHash: hashSessionToken(sessionToken),
		ExpiresAt: time.Now().Add(srv.sessionTTL),
	}
	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create session during login")
	}

	srv.log(ctx).Debug("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:    accessToken,
		AccessTokenTTL: srv.tokenSvc.AccessTokenDuration(),
		SessionToken:   sessionToken,
		User:           user,
	}, nil
}

// Logout deletes the session record. Unknown or already-deleted tokens are
// treated as success so repeated logouts stay harmless.
func (srv *accountService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	if err := srv.sessionRepo.DeleteByTokenHash(ctx, hashSessionToken(sessionToken)); err != nil {
		return errors.Wrap(err, "failed to delete session during logout")
	}

	return nil
}

// ResolveSession maps a raw cookie token to the Principal it belongs to.
func (srv *accountService) ResolveSession(ctx context.Context, sessionToken string) (*entity.Principal, error) {
	if sessionToken == "" {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("missing session token")
	}

	session, err := srv.sessionRepo.FindByTokenHash(ctx, hashSessionToken(sessionToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, errors.Wrap(domainerrors.ErrSessionExpired, "session resolution failed")
		}

		return nil, errors.Wrap(err, "failed to find session")
	}

	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrSessionExpired, "session user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load session user")
	}

	role, hasRole := user.Role()

	return &entity.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role,
		HasRole:  hasRole,
	}, nil
}

// generateSessionToken produces the raw opaque token stored in the cookie.
func generateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	return hex.EncodeToString(buf), nil
}

// hashSessionToken derives the SHA-256 hash persisted in the sessions table.
func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
