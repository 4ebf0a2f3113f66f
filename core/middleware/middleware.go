package middleware

import (
	"net/http"

	"ndrop-api/core/cache"
	"ndrop-api/core/constants"
	"ndrop-api/core/controller"
	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(cache cache.Cache) *Middleware {
	return &Middleware{cache: cache}
}

// AuthMiddleware verifies a user session token and stores its claims in the
// request context under constants.ContextTokenData. Tokens blacklisted by
// logout are rejected before signature verification.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", err)
					return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "internal server error")
				}
				if blacklisted {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "token revoked")
				}
			}

			tokenData, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, tokenData)
			return next(c)
		}
	}
}

// AdminMiddleware is the single guard in front of every privileged route:
// 401 for a missing, malformed, blacklisted or badly signed token, 403 for a
// valid token whose role claim is not the admin role.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AdminMiddleware:IsTokenBlacklisted", err)
					return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "internal server error")
				}
				if blacklisted {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "token revoked")
				}
			}

			claims, err := utils.ValidateAndParseAdminToken(token)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid or expired token")
			}

			if claims.RoleID != constants.AdminRoleID {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "admin role required")
			}

			c.Set(constants.ContextAdminData, claims)
			return next(c)
		}
	}
}

// AdminFromContext returns the admin claims set by AdminMiddleware.
func AdminFromContext(c echo.Context) (*utils.AdminTokenClaims, bool) {
	claims, ok := c.Get(constants.ContextAdminData).(*utils.AdminTokenClaims)
	return claims, ok
}

// UserFromContext returns the session claims set by AuthMiddleware.
func UserFromContext(c echo.Context) (*utils.TokenData, bool) {
	data, ok := c.Get(constants.ContextTokenData).(*utils.TokenData)
	return data, ok
}
