package notification

import (
	"ndrop-api/core/cache"
	"ndrop-api/core/database"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/notification/controller"
	"ndrop-api/modules/notification/repository"
	"ndrop-api/modules/notification/router"
	"ndrop-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the notification module. The participant source comes from the
// event module so fan-out can resolve confirmed participants.
func Init(v1 *echo.Group, db database.IDatabase, cache cache.Cache, participants service.ParticipantSource, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, participants, cache)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(v1, mw)

	return svc
}
