package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/sprayshop/backend/internal/application/identity"
	"github.com/sprayshop/backend/internal/domain/identity"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/infrastructure/auth"
	"github.com/sprayshop/backend/internal/infrastructure/config"
	"github.com/sprayshop/backend/internal/interfaces/http/middleware"
)

// memoryUserRepo is an in-memory identity.UserRepository for handler tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memoryUserRepo) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *identity.User) error {
	return r.Save(context.Background(), user)
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-32-bytes-long!",
		RefreshSecret:          "test-refresh-secret-32-bytes-ok!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "sprayshop-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := identityapp.NewAuthService(newMemoryUserRepo(), jwtService, blacklist,
		config.AuthConfig{MaxFailedAttempts: 3, LockDuration: 15 * time.Minute}, nil)

	cookieCfg := &config.CookieConfig{Path: "/", SameSite: "lax"}
	authHandler := NewAuthHandler(service, nil, cookieCfg)

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      []string{"/auth/signup", "/auth/login", "/auth/refresh"},
	}))
	authHandler.RegisterRoutes(engine.Group(""))
	return engine
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, cookies []*http.Cookie, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func refreshCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	return nil
}

func signUp(t *testing.T, router *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := postJSON(t, router, "/auth/signup", map[string]string{
		"email":        "owner@sprayshop.test",
		"password":     "painter2026",
		"display_name": "Shop Owner",
	}, nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return w
}

func TestAuthHandler_RefreshCookie(t *testing.T) {
	router := newAuthRouter(t)

	t.Run("signup sets an httpOnly refresh cookie", func(t *testing.T) {
		w := signUp(t, router)

		cookie := refreshCookieFrom(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)
		assert.Greater(t, cookie.MaxAge, 0)
	})

	t.Run("refresh accepts the cookie without a body", func(t *testing.T) {
		login := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "owner@sprayshop.test",
			"password": "painter2026",
		}, nil, "")
		require.Equal(t, http.StatusOK, login.Code, login.Body.String())
		cookie := refreshCookieFrom(login)
		require.NotNil(t, cookie)

		w := postJSON(t, router, "/auth/refresh", nil, []*http.Cookie{cookie}, "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// The rotated token replaces the cookie.
		rotated := refreshCookieFrom(w)
		require.NotNil(t, rotated)
		assert.NotEqual(t, cookie.Value, rotated.Value)
	})

	t.Run("refresh without body or cookie is rejected", func(t *testing.T) {
		w := postJSON(t, router, "/auth/refresh", nil, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout clears the cookie and revokes the session", func(t *testing.T) {
		login := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "owner@sprayshop.test",
			"password": "painter2026",
		}, nil, "")
		require.Equal(t, http.StatusOK, login.Code)

		var envelope struct {
			Data struct {
				Tokens struct {
					AccessToken  string `json:"access_token"`
					RefreshToken string `json:"refresh_token"`
				} `json:"tokens"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(login.Body.Bytes(), &envelope))
		access := envelope.Data.Tokens.AccessToken
		require.NotEmpty(t, access)

		w := postJSON(t, router, "/auth/logout", nil, []*http.Cookie{refreshCookieFrom(login)}, access)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		cleared := refreshCookieFrom(w)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)

		// The revoked access token no longer passes the gate.
		again := postJSON(t, router, "/auth/logout", nil, nil, access)
		assert.Equal(t, http.StatusUnauthorized, again.Code)
	})
}
