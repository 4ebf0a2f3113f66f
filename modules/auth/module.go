package auth

import (
	"ndrop-api/core/cache"
	"ndrop-api/core/database"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/auth/controller"
	"ndrop-api/modules/auth/repository"
	"ndrop-api/modules/auth/router"
	"ndrop-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes.
func Init(v1 *echo.Group, db database.IDatabase, c cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(v1, mw)

	return svc
}
