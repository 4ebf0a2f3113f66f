package meeting

import (
	"ndrop-api/core/database"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/meeting/controller"
	"ndrop-api/modules/meeting/repository"
	"ndrop-api/modules/meeting/router"
	"ndrop-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meeting module and registers routes. The returned
// service is shared with the admin module for slot management and with the
// event module for cascade deletes.
func Init(v1 *echo.Group, db database.IDatabase, notifier service.Notifier, mw *middleware.Middleware) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(repo, notifier)
	ctrl := controller.NewMeetingController(svc)

	router.NewMeetingRouter(ctrl).Register(v1, mw)

	return svc
}
