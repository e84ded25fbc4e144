package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osas-connect/config"
	"osas-connect/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f fakeChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type countingLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (l *countingLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

func testJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:              "middleware-test-secret",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: time.Hour,
	})
}

func authEngine(m *jwt.Manager, checker TokenChecker, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(m, checker)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuth(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserID), "role": c.GetString(CtxRole)})
	})
	r.GET("/p", handlers...)
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	m := testJWT()
	access, err := m.GenerateAccessToken("u-1", "student")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("u-1", "student", false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Missing", "", http.StatusUnauthorized},
		{"NotBearer", "Token " + access, http.StatusUnauthorized},
		{"Garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"RefreshToken", "Bearer " + refresh, http.StatusUnauthorized},
		{"Valid", "Bearer " + access, http.StatusOK},
	}
	r := authEngine(m, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestJWTAuth_Revocation(t *testing.T) {
	m := testJWT()
	tok, err := m.GenerateAccessToken("u-1", "student")
	require.NoError(t, err)
	claims, err := m.ParseToken(tok)
	require.NoError(t, err)

	w := doGet(authEngine(m, fakeChecker{revoked: map[string]bool{claims.ID: true}}), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// store outage fails open
	w = doGet(authEngine(m, fakeChecker{err: errors.New("redis down")}), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleAuth(t *testing.T) {
	m := testJWT()
	student, _ := m.GenerateAccessToken("u-1", "student")
	staff, _ := m.GenerateAccessToken("u-2", "osas_staff")

	r := authEngine(m, nil, "osas_staff", "admin")

	w := doGet(r, "Bearer "+student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "10003")

	w = doGet(r, "Bearer "+staff)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"osas_staff"`)
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name      string
		limiter   *countingLimiter
		want      int
		wantRetry string
	}{
		{"Allowed", &countingLimiter{allow: true}, http.StatusOK, ""},
		{"Denied", &countingLimiter{allow: false}, http.StatusTooManyRequests, "60"},
		{"StoreErrorFailsOpen", &countingLimiter{err: errors.New("redis down")}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimit(tt.limiter, 10, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.wantRetry, w.Header().Get("Retry-After"))
			require.Len(t, tt.limiter.keys, 1)
			assert.True(t, strings.HasSuffix(tt.limiter.keys[0], ":/login"))
		})
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/echo", BodyLimit(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("this body is too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
