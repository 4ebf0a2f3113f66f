package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	apperrors "ndrop-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, sessionSecret, adminSecret string) {
	t.Helper()
	config.SetForTesting(&config.Config{
		JWT: config.JWTConfig{
			SessionSecret: sessionSecret,
			AdminSecret:   adminSecret,
		},
	})
	t.Cleanup(func() { config.SetForTesting(nil) })
}

func appErrCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T", err)
	return appErr.Code
}

func TestSessionTokenRoundTrip(t *testing.T) {
	setTestConfig(t, "session-secret", "admin-secret")

	userID := uuid.New()
	email := "ada@example.com"
	token, err := GenerateToken(userID, &email, constants.ScopeTokenAccess)
	require.NoError(t, err)

	data, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, data.UserID)
	require.NotNil(t, data.Email)
	assert.Equal(t, email, *data.Email)
	assert.Equal(t, constants.ScopeTokenAccess, data.Scope)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	setTestConfig(t, "session-secret", "admin-secret")
	token, err := GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
	require.NoError(t, err)

	setTestConfig(t, "a-different-secret", "admin-secret")
	_, err = ValidateAndParseToken(token)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, appErrCode(t, err))
}

func TestExpiredSessionToken(t *testing.T) {
	setTestConfig(t, "session-secret", "admin-secret")

	claims := TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("session-secret"))
	require.NoError(t, err)

	_, err = ValidateAndParseToken(token)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTokenExpired, appErrCode(t, err))
}

func TestAdminTokenRoundTrip(t *testing.T) {
	setTestConfig(t, "session-secret", "admin-secret")

	adminID := uuid.New()
	token, err := GenerateAdminToken(adminID, "organizer")
	require.NoError(t, err)

	claims, err := ValidateAndParseAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, adminID, claims.AdminID)
	assert.Equal(t, "organizer", claims.Username)
	assert.Equal(t, constants.AdminRoleName, claims.Role)
	assert.Equal(t, constants.AdminRoleID, claims.RoleID)
	assert.Greater(t, time.Until(claims.ExpiresAt.Time), time.Duration(0))
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	setTestConfig(t, "session-secret", "admin-secret")

	sessionToken, err := GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
	require.NoError(t, err)
	adminToken, err := GenerateAdminToken(uuid.New(), "organizer")
	require.NoError(t, err)

	_, err = ValidateAndParseAdminToken(sessionToken)
	assert.Error(t, err)
	_, err = ValidateAndParseToken(adminToken)
	assert.Error(t, err)
}

func TestGetTokenFromHeader(t *testing.T) {
	e := echo.New()

	newContext := func(header string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	token, err := GetTokenFromHeader(newContext("Bearer abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Scheme matching is case insensitive.
	token, err = GetTokenFromHeader(newContext("bearer abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = GetTokenFromHeader(newContext(""))
	assert.Equal(t, apperrors.ErrMissingAuthorizationHeader, appErrCode(t, err))

	_, err = GetTokenFromHeader(newContext("abc123"))
	assert.Equal(t, apperrors.ErrInvalidTokenFormat, appErrCode(t, err))
}
