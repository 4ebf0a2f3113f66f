package router

import (
	"ndrop-api/core/middleware"
	"ndrop-api/modules/admin/controller"

	"github.com/labstack/echo/v4"
)

type AdminRouter struct {
	controller *controller.AdminController
}

func NewAdminRouter(controller *controller.AdminController) *AdminRouter {
	return &AdminRouter{controller: controller}
}

func (r *AdminRouter) Register(v1 *echo.Group, mw *middleware.Middleware) {
	admin := v1.Group("/admin")
	admin.POST("/login", r.controller.Login)
	admin.POST("/logout", r.controller.Logout)

	guarded := admin.Group("", mw.AdminMiddleware())
	guarded.POST("/events", r.controller.CreateEvent)
	guarded.PUT("/events/:id", r.controller.UpdateEvent)
	guarded.DELETE("/events/:id", r.controller.DeleteEvent)
	guarded.GET("/events/:id/participants", r.controller.ListParticipants)
	guarded.POST("/events/:id/notice", r.controller.SendNotice)
	guarded.GET("/events/:id/connections", r.controller.EventConnections)
	guarded.POST("/events/:id/time-slots", r.controller.CreateSlots)
	guarded.POST("/notices", r.controller.Broadcast)
	guarded.DELETE("/participants/:id", r.controller.RemoveParticipant)
	guarded.PUT("/participants/:id/check-in", r.controller.CheckInParticipant)
}
