package router

import (
	"ndrop-api/core/middleware"
	"ndrop-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Register(v1 *echo.Group, mw *middleware.Middleware) {
	auth := v1.Group("/auth")
	auth.GET("/google", r.controller.GoogleAuthURL)
	auth.GET("/google/callback", r.controller.GoogleCallback)
	auth.POST("/google/token", r.controller.GoogleToken)
	auth.POST("/logout", r.controller.Logout)

	auth.GET("/me", r.controller.Me, mw.AuthMiddleware())
	auth.PUT("/me", r.controller.UpdateProfile, mw.AuthMiddleware())
}
