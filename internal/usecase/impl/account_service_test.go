package impl

import (
	"context"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountServiceForTest(
	userRepo *mockUserRepository,
	sessionRepo *mockSessionRepository,
	hasher *mockPasswordHasher,
	tokenSvc *mockTokenService,
) usecase.AccountUsecase {
	factory := &stubRepoFactory{userRepo: userRepo, sessionRepo: sessionRepo}

	return NewAccountService(AccountServiceParams{
		TxManager:   &stubTxManager{factory: factory},
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Hasher:      hasher,
		TokenSvc:    tokenSvc,
		Config:      &config.Config{},
		Logger:      discardLogger(),
	})
}

func TestAccountService_Register_Success(t *testing.T) {
	t.Parallel()

	userRepo := new(mockUserRepository)
	hasher := new(mockPasswordHasher)
	svc := newAccountServiceForTest(userRepo, new(mockSessionRepository), hasher, new(mockTokenService))

	hasher.On("Hash", "hunter2").Return("$2a$12$hashed", nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "alice" &&
			u.PasswordHash == "$2a$12$hashed" &&
			u.Profile != nil && u.Profile.Role == entity.RoleUser
	})).Return(nil)

	user, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Password: "hunter2",
		Role:     "user",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	userRepo.AssertExpectations(t)
	hasher.AssertExpectations(t)
}

func TestAccountService_Register_UsernameTaken(t *testing.T) {
	t.Parallel()

	userRepo := new(mockUserRepository)
	hasher := new(mockPasswordHasher)
	svc := newAccountServiceForTest(userRepo, new(mockSessionRepository), hasher, new(mockTokenService))

	hasher.On("Hash", "pw").Return("hash", nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&entity.User{ID: uuid.New(), Username: "alice"}, nil)

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Password: "pw",
		Role:     "user",
	})

	require.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_UnknownRole(t *testing.T) {
	t.Parallel()

	svc := newAccountServiceForTest(new(mockUserRepository), new(mockSessionRepository),
		new(mockPasswordHasher), new(mockTokenService))

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Password: "pw",
		Role:     "superuser",
	})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAccountService_Login_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Username:     "alice",
		PasswordHash: "stored-hash",
		Profile:      &entity.Profile{UserID: userID, Role: entity.RoleAdmin},
	}

	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	hasher := new(mockPasswordHasher)
	tokenSvc := new(mockTokenService)
	svc := newAccountServiceForTest(userRepo, sessionRepo, hasher, tokenSvc)

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	hasher.On("Check", "hunter2", "stored-hash").Return(true)
	tokenSvc.On("GenerateAccessToken", userID, "alice", entity.RoleAdmin).Return("signed-jwt", nil)
	tokenSvc.On("AccessTokenDuration").Return(15 * time.Minute)
	sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
		return s.UserID == userID && len(s.TokenHash) == 64 && s.ExpiresAt.After(time.Now())
	})).Return(nil)

	output, err := svc.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "hunter2"})

	require.NoError(t, err)
	assert.Equal(t, "signed-jwt", output.AccessToken)
	assert.Equal(t, 15*time.Minute, output.AccessTokenTTL)
	assert.NotEmpty(t, output.SessionToken)
	assert.Equal(t, user, output.User)
	sessionRepo.AssertExpectations(t)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	user := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "stored-hash"}

	userRepo := new(mockUserRepository)
	hasher := new(mockPasswordHasher)
	svc := newAccountServiceForTest(userRepo, new(mockSessionRepository), hasher, new(mockTokenService))

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	hasher.On("Check", "wrong", "stored-hash").Return(false)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "wrong"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownUserSameError(t *testing.T) {
	t.Parallel()

	userRepo := new(mockUserRepository)
	svc := newAccountServiceForTest(userRepo, new(mockSessionRepository),
		new(mockPasswordHasher), new(mockTokenService))

	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{Username: "ghost", Password: "pw"})

	// A missing user reports exactly the same failure as a wrong password.
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	sessionRepo := new(mockSessionRepository)
	svc := newAccountServiceForTest(new(mockUserRepository), sessionRepo,
		new(mockPasswordHasher), new(mockTokenService))

	sessionRepo.On("DeleteByTokenHash", mock.Anything, mock.AnythingOfType("string")).Return(nil).Twice()

	require.NoError(t, svc.Logout(context.Background(), "sometoken"))
	require.NoError(t, svc.Logout(context.Background(), "sometoken"))
	require.NoError(t, svc.Logout(context.Background(), ""))
	sessionRepo.AssertExpectations(t)
}

func TestAccountService_ResolveSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &entity.User{
		ID:       userID,
		Username: "bob",
		Profile:  &entity.Profile{UserID: userID, Role: entity.RoleUser},
	}

	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAccountServiceForTest(userRepo, sessionRepo, new(mockPasswordHasher), new(mockTokenService))

	sessionRepo.On("FindByTokenHash", mock.Anything, mock.AnythingOfType("string")).
		Return(&entity.Session{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil)
	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)

	principal, err := svc.ResolveSession(context.Background(), "rawtoken")

	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, "bob", principal.Username)
	assert.Equal(t, entity.RoleUser, principal.Role)
	assert.True(t, principal.HasRole)
}

func TestAccountService_ResolveSession_Expired(t *testing.T) {
	t.Parallel()

	sessionRepo := new(mockSessionRepository)
	svc := newAccountServiceForTest(new(mockUserRepository), sessionRepo,
		new(mockPasswordHasher), new(mockTokenService))

	sessionRepo.On("FindByTokenHash", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, repository.ErrSessionExpired)

	_, err := svc.ResolveSession(context.Background(), "stale")

	require.ErrorIs(t, err, domainerrors.ErrSessionExpired)
}

func TestHashSessionToken_Deterministic(t *testing.T) {
	t.Parallel()

	first := hashSessionToken("token")
	second := hashSessionToken("token")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, hashSessionToken("other"))
}
