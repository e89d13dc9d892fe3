package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"maplecart/auth-service/internal/app/auth/entity"
	"maplecart/auth-service/internal/app/auth/util"
)

func setupMiddlewareRouter(mockService *MockAuthService, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := NewAuthMiddleware(mockService)

	handlers := []gin.HandlerFunc{m.Authenticate()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet("user_id").(uuid.UUID).String(),
			"role":    c.GetString("role"),
		})
	})

	router.GET("/protected", handlers...)

	return router
}

func TestAuthenticate_Success(t *testing.T) {
	userID := uuid.New()
	claims := &util.JWTClaims{UserID: userID, Email: "test@example.com", Role: entity.RoleUser}

	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "valid-token").Return(claims, nil)

	router := setupMiddlewareRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupMiddlewareRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupMiddlewareRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "expired-token").Return(nil, util.ErrExpiredToken)

	router := setupMiddlewareRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireRole_Allowed(t *testing.T) {
	claims := &util.JWTClaims{UserID: uuid.New(), Email: "admin@example.com", Role: entity.RoleAdmin}

	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "admin-token").Return(claims, nil)

	router := setupMiddlewareRouter(mockService, "admin")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	claims := &util.JWTClaims{UserID: uuid.New(), Email: "user@example.com", Role: entity.RoleUser}

	mockService := new(MockAuthService)
	mockService.On("ValidateToken", mock.Anything, "user-token").Return(claims, nil)

	router := setupMiddlewareRouter(mockService, "admin")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
