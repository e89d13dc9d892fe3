package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"maplecart/auth-service/internal/app/auth/entity"
	"maplecart/auth-service/internal/app/auth/repository"
	"maplecart/auth-service/internal/app/auth/repository/mocks"
	"maplecart/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Хелперы для создания тестовых данных
func newTestJWTManager() *util.JWTManager {
	return util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func newTestUser() *entity.User {
	hash, _ := util.HashPassword("password123")
	return &entity.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		Role:         entity.RoleUser,
		CreatedAt:    time.Now(),
	}
}

// ==================== Register Tests ====================

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := newTestJWTManager()

	userRepo.On("GetByEmail", ctx, "newuser@example.com").Return(nil, pgx.ErrNoRows)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	tokenRepo.On("SaveRefreshToken", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	service := NewAuthService(userRepo, tokenRepo, jwtManager)

	req := &entity.RegisterRequest{
		Email:    "newuser@example.com",
		Password: "password123",
		Name:     "New User",
	}

	// Act
	response, err := service.Register(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, response)
	assert.Equal(t, "newuser@example.com", response.User.Email)
	assert.Equal(t, "New User", response.User.Name)
	assert.Equal(t, entity.RoleUser, response.User.Role)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NotEmpty(t, response.Tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), response.Tokens.ExpiresIn)

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Register_PasswordIsHashed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	var createdUser *entity.User
	userRepo.On("GetByEmail", ctx, "newuser@example.com").Return(nil, pgx.ErrNoRows)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		createdUser = args.Get(1).(*entity.User)
	}).Return(nil)
	tokenRepo.On("SaveRefreshToken", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	_, err := service.Register(ctx, &entity.RegisterRequest{
		Email:    "newuser@example.com",
		Password: "password123",
		Name:     "New User",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, createdUser)
	assert.NotEqual(t, "password123", createdUser.PasswordHash)
	assert.True(t, util.CheckPassword("password123", createdUser.PasswordHash))
}

func TestAuthService_Register_UserAlreadyExists(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	existingUser := newTestUser()
	userRepo.On("GetByEmail", ctx, "existing@example.com").Return(existingUser, nil)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	req := &entity.RegisterRequest{
		Email:    "existing@example.com",
		Password: "password123",
		Name:     "Test User",
	}

	// Act
	response, err := service.Register(ctx, req)

	// Assert
	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrUserExists)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_RepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	userRepo.On("GetByEmail", ctx, "newuser@example.com").Return(nil, errors.New("connection refused"))

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	response, err := service.Register(ctx, &entity.RegisterRequest{
		Email:    "newuser@example.com",
		Password: "password123",
		Name:     "New User",
	})

	// Assert
	assert.Nil(t, response)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
}

// ==================== Login Tests ====================

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := newTestJWTManager()

	user := newTestUser()
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	service := NewAuthService(userRepo, tokenRepo, jwtManager)

	// Act
	response, err := service.Login(ctx, &entity.LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.User.ID)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NotEmpty(t, response.Tokens.RefreshToken)

	// Access токен содержит данные пользователя
	claims, err := jwtManager.ValidateToken(response.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	user := newTestUser()
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	response, err := service.Login(ctx, &entity.LoginRequest{
		Email:    user.Email,
		Password: "wrongpassword",
	})

	// Assert
	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	userRepo.On("GetByEmail", ctx, "unknown@example.com").Return(nil, pgx.ErrNoRows)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	response, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "unknown@example.com",
		Password: "password123",
	})

	// Assert
	assert.Nil(t, response)
	// Не раскрываем, существует ли пользователь
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== RefreshTokens Tests ====================

func TestAuthService_RefreshTokens_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	user := newTestUser()
	storedToken := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     "old-refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}

	tokenRepo.On("GetRefreshToken", ctx, "old-refresh-token").Return(storedToken, nil)
	tokenRepo.On("DeleteRefreshToken", ctx, "old-refresh-token").Return(nil)
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	tokens, err := service.RefreshTokens(ctx, "old-refresh-token")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, "old-refresh-token", tokens.RefreshToken)

	// Использованный токен должен быть удален
	tokenRepo.AssertCalled(t, "DeleteRefreshToken", ctx, "old-refresh-token")
}

func TestAuthService_RefreshTokens_UnknownToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	tokenRepo.On("GetRefreshToken", ctx, "unknown-token").Return(nil, repository.ErrTokenNotFound)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	tokens, err := service.RefreshTokens(ctx, "unknown-token")

	// Assert
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_RefreshTokens_UserDeleted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	userID := uuid.New()
	storedToken := &entity.RefreshToken{
		UserID:    userID,
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tokenRepo.On("GetRefreshToken", ctx, "refresh-token").Return(storedToken, nil)
	tokenRepo.On("DeleteRefreshToken", ctx, "refresh-token").Return(nil)
	userRepo.On("GetByID", ctx, userID).Return(nil, pgx.ErrNoRows)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	tokens, err := service.RefreshTokens(ctx, "refresh-token")

	// Assert
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ==================== Logout Tests ====================

func TestAuthService_Logout_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := newTestJWTManager()

	user := newTestUser()
	accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	tokenRepo.On("AddToBlacklist", ctx, accessToken, mock.AnythingOfType("time.Time")).Return(nil)
	tokenRepo.On("DeleteUserRefreshTokens", ctx, user.ID).Return(nil)

	service := NewAuthService(userRepo, tokenRepo, jwtManager)

	// Act
	err = service.Logout(ctx, user.ID, accessToken)

	// Assert
	require.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Logout_InvalidTokenIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	service := NewAuthService(userRepo, tokenRepo, newTestJWTManager())

	// Act
	err := service.Logout(ctx, uuid.New(), "not-a-valid-token")

	// Assert
	require.NoError(t, err)
	tokenRepo.AssertNotCalled(t, "AddToBlacklist", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== ValidateToken Tests ====================

func TestAuthService_ValidateToken_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := newTestJWTManager()

	user := newTestUser()
	accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(false, nil)

	service := NewAuthService(userRepo, tokenRepo, jwtManager)

	// Act
	claims, err := service.ValidateToken(ctx, accessToken)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestAuthService_ValidateToken_Blacklisted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	jwtManager := newTestJWTManager()

	user := newTestUser()
	accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(true, nil)

	service := NewAuthService(userRepo, tokenRepo, jwtManager)

	// Act
	claims, err := service.ValidateToken(ctx, accessToken)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)

	expiredManager := util.NewJWTManager("test-secret-key", time.Nanosecond, time.Hour)
	user := newTestUser()
	accessToken, err := expiredManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	tokenRepo.On("IsBlacklisted", ctx, accessToken).Return(false, nil)

	service := NewAuthService(userRepo, tokenRepo, expiredManager)

	// Act
	claims, err := service.ValidateToken(ctx, accessToken)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, util.ErrExpiredToken)
}
