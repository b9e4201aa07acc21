package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/sprayshop/backend/internal/application/identity"
	"github.com/sprayshop/backend/internal/infrastructure/auth"
	"github.com/sprayshop/backend/internal/infrastructure/config"
	"github.com/sprayshop/backend/internal/interfaces/http/middleware"
)

const refreshCookieName = "refresh_token"

// AuthHandler exposes the session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	// limiter throttles credential attempts separately from the global
	// rate limit; nil disables it
	limiter *middleware.RateLimiter
	// cookieCfg enables the httpOnly refresh-token cookie; nil leaves
	// the token body-only
	cookieCfg *config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, limiter *middleware.RateLimiter, cookieCfg *config.CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter, cookieCfg: cookieCfg}
}

// setRefreshCookie mirrors the refresh token into an httpOnly cookie so
// browser clients never have to store it in script-readable state.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, tokens *auth.TokenPair) {
	if h.cookieCfg == nil || tokens == nil {
		return
	}

	c.SetSameSite(sameSiteMode(h.cookieCfg.SameSite))
	maxAge := int(time.Until(tokens.RefreshTokenExpiresAt).Seconds())
	c.SetCookie(refreshCookieName, tokens.RefreshToken, maxAge,
		h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	if h.cookieCfg == nil {
		return
	}
	c.SetCookie(refreshCookieName, "", -1,
		h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	{
		if h.limiter != nil {
			group.POST("/signup", middleware.RateLimit(h.limiter), h.SignUp)
			group.POST("/login", middleware.RateLimit(h.limiter), h.SignIn)
			group.POST("/refresh", middleware.RateLimit(h.limiter), h.Refresh)
		} else {
			group.POST("/signup", h.SignUp)
			group.POST("/login", h.SignIn)
			group.POST("/refresh", h.Refresh)
		}
		group.POST("/logout", h.SignOut)
		group.GET("/session", h.Session)
	}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, session.Tokens)
	h.Created(c, session)
}

// SignIn handles POST /auth/login
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, session.Tokens)
	h.Success(c, session)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	// The body is optional: browser clients send the token via the
	// httpOnly cookie instead.
	var req identityapp.RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshCookieName)
	}
	if token == "" {
		h.Unauthorized(c, "Refresh token is required")
		return
	}

	session, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, session.Tokens)
	h.Success(c, session)
}

// SignOut handles POST /auth/logout
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := middleware.GetJWTClaims(c)
	if !ok {
		h.Unauthorized(c, "Not signed in")
		return
	}

	// The refresh token is optional; when present (body or cookie) it is
	// revoked too.
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshCookieName)
	}

	if err := h.authService.SignOut(c.Request.Context(), claims, refreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.NoContent(c)
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	userIDStr := middleware.GetJWTUserID(c)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.Unauthorized(c, "Not signed in")
		return
	}

	user, err := h.authService.GetSession(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// handleAuthError translates token-layer errors that are plain sentinel
// errors rather than domain errors.
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		h.Unauthorized(c, "Token has expired")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		h.Unauthorized(c, "Token has been revoked")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMaxRefreshExceeded):
		h.Unauthorized(c, "Invalid token")
	default:
		h.HandleError(c, err)
	}
}
