package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

const refreshCookieName = "refresh_token"

// CookieOptions refresh_token cookie settings
type CookieOptions struct {
	Path           string
	Secure         bool
	MaxAge         time.Duration
	RememberMaxAge time.Duration
}

func defaultCookieOptions() *CookieOptions {
	return &CookieOptions{
		Path:           "/api/v1/auth",
		MaxAge:         7 * 24 * time.Hour,
		RememberMaxAge: 30 * 24 * time.Hour,
	}
}

// AuthHandler authentication endpoints
type AuthHandler struct {
	authSvc service.AuthService
	cookie  *CookieOptions
}

// NewAuthHandler nil cookie options fall back to defaults
func NewAuthHandler(authSvc service.AuthService, cookie *CookieOptions) *AuthHandler {
	if cookie == nil {
		cookie = defaultCookieOptions()
	}
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	maxAge := h.cookie.MaxAge
	if req.RememberMe {
		maxAge = h.cookie.RememberMaxAge
	}
	h.setRefreshCookie(c, result.RefreshToken, int(maxAge.Seconds()))
	response.OK(c, result)
}

// Register student self-registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, user)
}

// RefreshToken reads the refresh_token cookie, falling back to the JSON body
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "refresh token is required")
			return
		}
		token = req.RefreshToken
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(h.cookie.MaxAge.Seconds()))
	response.OK(c, result)
}

// Logout revokes the current access token and clears the refresh cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenIdentity(c)
	if jti != "" {
		if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
			response.InternalError(c)
			return
		}
	}

	h.setRefreshCookie(c, "", -1)
	response.OK(c, nil)
}

// GetCurrentUser
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangePassword
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid email or password")
	case errors.Is(err, service.ErrUserInactive):
		response.Forbidden(c, 11002, "account is deactivated")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11003, "email is already registered")
	case errors.Is(err, service.ErrStudentIDExists):
		response.Conflict(c, 11004, "student ID is already registered")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Unauthorized(c, 11005, "invalid or expired refresh token")
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11007, "current password is incorrect")
	case errors.Is(err, service.ErrSamePassword):
		response.BadRequest(c, 11008, "new password must differ from the current one")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "user not found")
	default:
		response.InternalError(c)
	}
}
