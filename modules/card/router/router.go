package router

import (
	"ndrop-api/core/middleware"
	"ndrop-api/modules/card/controller"

	"github.com/labstack/echo/v4"
)

type CardRouter struct {
	controller *controller.CardController
}

func NewCardRouter(controller *controller.CardController) *CardRouter {
	return &CardRouter{controller: controller}
}

func (r *CardRouter) Register(v1 *echo.Group, mw *middleware.Middleware) {
	cards := v1.Group("/cards")

	// Public share-link lookup, no auth.
	cards.GET("/slug/:slug", r.controller.GetBySlug)

	cards.GET("/me", r.controller.GetMyCard, mw.AuthMiddleware())
	cards.PUT("/me", r.controller.UpdateMyCard, mw.AuthMiddleware())
	cards.POST("/me/image", r.controller.UploadImage, mw.AuthMiddleware())
	cards.POST("/collect", r.controller.CollectCard, mw.AuthMiddleware())
	cards.GET("/collected", r.controller.ListCollected, mw.AuthMiddleware())
	cards.PUT("/collected/:id/favorite", r.controller.SetFavorite, mw.AuthMiddleware())
}
