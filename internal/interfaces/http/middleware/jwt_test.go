package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprayshop/backend/internal/infrastructure/auth"
	"github.com/sprayshop/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-for-middleware-tests",
		RefreshSecret:          "refresh-secret-for-middleware-tests",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "sprayshop-test",
	})
}

func newTestRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	router.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	userID := uuid.New()

	t.Run("rejects a missing header", func(t *testing.T) {
		router := newTestRouter(JWTMiddlewareConfig{JWTService: jwtService})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		router := newTestRouter(JWTMiddlewareConfig{JWTService: jwtService})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts a valid token and exposes the user", func(t *testing.T) {
		router := newTestRouter(JWTMiddlewareConfig{JWTService: jwtService})

		tokens, err := jwtService.GenerateTokenPair(userID, "owner@sprayshop.test")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+tokens.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("rejects a refresh token on the access gate", func(t *testing.T) {
		router := newTestRouter(JWTMiddlewareConfig{JWTService: jwtService})

		tokens, err := jwtService.GenerateTokenPair(userID, "owner@sprayshop.test")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+tokens.RefreshToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		router := newTestRouter(JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		})

		tokens, err := jwtService.GenerateTokenPair(userID, "owner@sprayshop.test")
		require.NoError(t, err)
		claims, err := jwtService.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+tokens.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips whitelisted paths", func(t *testing.T) {
		router := newTestRouter(JWTMiddlewareConfig{
			JWTService: jwtService,
			SkipPaths:  []string{"/open"},
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
