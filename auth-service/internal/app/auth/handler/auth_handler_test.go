package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maplecart/auth-service/internal/app/auth/entity"
	"maplecart/auth-service/internal/app/auth/service"
	"maplecart/auth-service/internal/app/auth/util"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	args := m.Called(ctx, userID, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*util.JWTClaims), args.Error(1)
}

// setupAuthRouter регистрирует реальные обработчики с подменой auth middleware
func setupAuthRouter(mockService *MockAuthService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewAuthHandler(mockService)

	authStub := func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("user_id", userID)
			c.Set("auth_token", "test-token")
		}
		c.Next()
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.GET("/validate", h.ValidateToken)
		auth.GET("/me", authStub, h.GetMe)
		auth.POST("/logout", authStub, h.Logout)
	}

	return router
}

func testAuthResponse() *entity.AuthResponse {
	return &entity.AuthResponse{
		User: entity.User{
			ID:        uuid.New(),
			Email:     "test@example.com",
			Name:      "Test User",
			Role:      entity.RoleUser,
			CreatedAt: time.Now(),
		},
		Tokens: entity.TokenPair{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    900,
		},
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Register", mock.Anything, mock.AnythingOfType("*entity.RegisterRequest")).
		Return(testAuthResponse(), nil)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, "access-token", resp.Tokens.AccessToken)
	// Хэш пароля не должен попадать в ответ
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestRegisterHandler_UserExists(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Register", mock.Anything, mock.AnythingOfType("*entity.RegisterRequest")).
		Return(nil, service.ErrUserExists)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "existing@example.com",
		Password: "password123",
		Name:     "Test User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterHandler_InvalidEmail(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "not-an-email",
		Password: "password123",
		Name:     "Test User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "test@example.com",
		Password: "short",
		Name:     "Test User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, mock.AnythingOfType("*entity.LoginRequest")).
		Return(testAuthResponse(), nil)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, mock.AnythingOfType("*entity.LoginRequest")).
		Return(nil, service.ErrInvalidCredentials)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.LoginRequest{
		Email:    "test@example.com",
		Password: "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshHandler_Success(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("RefreshTokens", mock.Anything, "old-refresh-token").
		Return(&entity.TokenPair{
			AccessToken:  "new-access-token",
			RefreshToken: "new-refresh-token",
			ExpiresIn:    900,
		}, nil)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RefreshRequest{RefreshToken: "old-refresh-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var tokens entity.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.Equal(t, "new-access-token", tokens.AccessToken)
	assert.Equal(t, "new-refresh-token", tokens.RefreshToken)
}

func TestRefreshHandler_InvalidToken(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("RefreshTokens", mock.Anything, "bad-token").
		Return(nil, service.ErrInvalidRefreshToken)

	router := setupAuthRouter(mockService, uuid.Nil)

	body, _ := json.Marshal(entity.RefreshRequest{RefreshToken: "bad-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMeHandler_Success(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{
		ID:    userID,
		Email: "test@example.com",
		Name:  "Test User",
		Role:  entity.RoleUser,
	}

	mockService := new(MockAuthService)
	mockService.On("GetCurrentUser", mock.Anything, userID).Return(user, nil)

	router := setupAuthRouter(mockService, userID)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, userID, got.ID)
}

func TestGetMeHandler_Unauthenticated(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutHandler_Success(t *testing.T) {
	userID := uuid.New()

	mockService := new(MockAuthService)
	mockService.On("Logout", mock.Anything, userID, "test-token").Return(nil)

	router := setupAuthRouter(mockService, userID)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestValidateTokenHandler_Success(t *testing.T) {
	userID := uuid.New()
	claims := &util.JWTClaims{
		UserID: userID,
		Email:  "test@example.com",
		Role:   entity.RoleUser,
	}

	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "valid-token").Return(claims, nil)

	router := setupAuthRouter(mockService, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, userID.String(), resp["user_id"])
}

func TestValidateTokenHandler_Expired(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "expired-token").Return(nil, util.ErrExpiredToken)

	router := setupAuthRouter(mockService, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenHandler_MissingHeader(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
