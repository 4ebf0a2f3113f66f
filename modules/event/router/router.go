package router

import (
	"ndrop-api/core/middleware"
	"ndrop-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(v1 *echo.Group, mw *middleware.Middleware) {
	events := v1.Group("/events")
	events.GET("", r.controller.ListEvents)
	events.GET("/:id", r.controller.GetEvent)
	events.GET("/:id/participants", r.controller.SearchParticipants, mw.AuthMiddleware())
	events.POST("/:id/feedback", r.controller.SubmitFeedback, mw.AuthMiddleware())

	user := v1.Group("/user", mw.AuthMiddleware())
	user.POST("/join-event", r.controller.JoinEvent)
}
