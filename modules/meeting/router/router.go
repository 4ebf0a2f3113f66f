package router

import (
	"ndrop-api/core/middleware"
	"ndrop-api/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

type MeetingRouter struct {
	controller *controller.MeetingController
}

func NewMeetingRouter(controller *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{controller: controller}
}

func (r *MeetingRouter) Register(v1 *echo.Group, mw *middleware.Middleware) {
	v1.GET("/events/:id/time-slots", r.controller.ListSlots, mw.AuthMiddleware())

	meetings := v1.Group("/meetings", mw.AuthMiddleware())
	meetings.GET("", r.controller.MyMeetings)
	meetings.POST("", r.controller.RequestMeeting)
	meetings.PUT("/:id/respond", r.controller.Respond)
	meetings.DELETE("/:id", r.controller.Cancel)
}
