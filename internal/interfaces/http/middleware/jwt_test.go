package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopfin/backend/internal/infrastructure/auth"
	"github.com/coopfin/backend/internal/infrastructure/config"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret: "middleware-test-secret-0123456789ab",
		Issuer: "coop-backend-test",
	})

	r := gin.New()
	r.Use(RequestID())
	r.Use(JWTAuthMiddleware(jwtService))
	r.GET("/api/v1/members", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwtService
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Run("allows request with valid token", func(t *testing.T) {
		r, jwtService := newAuthTestRouter(t)
		userID := uuid.New()

		token, err := jwtService.GenerateToken(userID, "teller1", []string{"teller"}, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("rejects request without token", func(t *testing.T) {
		r, _ := newAuthTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("rejects expired token", func(t *testing.T) {
		r, jwtService := newAuthTestRouter(t)

		token, err := jwtService.GenerateToken(uuid.New(), "teller1", nil, -time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("rejects malformed authorization header", func(t *testing.T) {
		r, _ := newAuthTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("skips health endpoint", func(t *testing.T) {
		r, _ := newAuthTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates request ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDKey))
		assert.Equal(t, w.Header().Get(RequestIDKey), w.Body.String())
	})

	t.Run("honors incoming request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDKey, "req-from-proxy")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-from-proxy", w.Header().Get(RequestIDKey))
	})
}
