package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	"ndrop-api/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	blacklisted map[string]bool
}

func (f *fakeCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	f.blacklisted[token] = true
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f *fakeCache) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	return 0, false, nil
}

func (f *fakeCache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error {
	return nil
}

func (f *fakeCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uuid.UUID) error {
	return nil
}

func (f *fakeCache) Close() error { return nil }

func setTestConfig(t *testing.T) {
	t.Helper()
	config.SetForTesting(&config.Config{
		JWT: config.JWTConfig{
			SessionSecret: "session-secret-for-tests",
			AdminSecret:   "admin-secret-for-tests",
		},
	})
	t.Cleanup(func() { config.SetForTesting(nil) })
}

func adminServer(mw *Middleware) *echo.Echo {
	e := echo.New()
	e.GET("/admin/ping", func(c echo.Context) error {
		claims, ok := AdminFromContext(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, claims.Username)
	}, mw.AdminMiddleware())
	return e
}

func doGet(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// nonAdminToken is signed with the admin secret but carries a non-admin
// role claim.
func nonAdminToken(t *testing.T) string {
	t.Helper()
	claims := utils.AdminTokenClaims{
		AdminID:  uuid.New(),
		Username: "intern",
		Role:     "viewer",
		RoleID:   constants.AdminRoleID - 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("admin-secret-for-tests"))
	require.NoError(t, err)
	return token
}

func TestAdminMiddleware(t *testing.T) {
	setTestConfig(t)

	cache := &fakeCache{blacklisted: map[string]bool{}}
	e := adminServer(NewMiddleware(cache))

	adminToken, err := utils.GenerateAdminToken(uuid.New(), "organizer")
	require.NoError(t, err)

	t.Run("valid admin token passes and exposes claims", func(t *testing.T) {
		rec := doGet(e, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "organizer", rec.Body.String())
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := doGet(e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		rec := doGet(e, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		rec := doGet(e, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user session token is not an admin token", func(t *testing.T) {
		sessionToken, err := utils.GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
		require.NoError(t, err)

		rec := doGet(e, "Bearer "+sessionToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role claim is forbidden, not unauthorized", func(t *testing.T) {
		rec := doGet(e, "Bearer "+nonAdminToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("blacklisted token is unauthorized", func(t *testing.T) {
		cache.blacklisted[adminToken] = true
		rec := doGet(e, "Bearer "+adminToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	setTestConfig(t)

	e := echo.New()
	cache := &fakeCache{blacklisted: map[string]bool{}}
	mw := NewMiddleware(cache)
	e.GET("/me", func(c echo.Context) error {
		data, ok := UserFromContext(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, data.UserID.String())
	}, mw.AuthMiddleware())

	userID := uuid.New()
	email := "ada@example.com"
	token, err := utils.GenerateToken(userID, &email, constants.ScopeTokenAccess)
	require.NoError(t, err)

	t.Run("valid session token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logged-out token is unauthorized", func(t *testing.T) {
		cache.blacklisted[token] = true
		t.Cleanup(func() { delete(cache.blacklisted, token) })

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token is not a session token", func(t *testing.T) {
		adminToken, err := utils.GenerateAdminToken(uuid.New(), "organizer")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
