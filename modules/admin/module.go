package admin

import (
	"context"

	"ndrop-api/core/cache"
	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/admin/controller"
	"ndrop-api/modules/admin/repository"
	"ndrop-api/modules/admin/router"
	"ndrop-api/modules/admin/service"
	eventservice "ndrop-api/modules/event/service"
	meetingservice "ndrop-api/modules/meeting/service"
	notifservice "ndrop-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the admin module and registers routes.
func Init(
	v1 *echo.Group,
	db database.IDatabase,
	c cache.Cache,
	events eventservice.EventServiceInterface,
	notifications notifservice.NotificationServiceInterface,
	meetings meetingservice.MeetingServiceInterface,
	mw *middleware.Middleware,
) {
	repo := repository.NewAdminRepository(db)
	svc := service.NewAdminService(repo, c)
	ctrl := controller.NewAdminController(svc, events, notifications, meetings)

	if err := svc.EnsureBootstrapAdmin(context.Background()); err != nil {
		logger.Error("Admin:Init:EnsureBootstrapAdmin", err)
	}

	router.NewAdminRouter(ctrl).Register(v1, mw)
}
