package event

import (
	"ndrop-api/core/database"
	"ndrop-api/core/middleware"
	"ndrop-api/modules/event/controller"
	"ndrop-api/modules/event/repository"
	"ndrop-api/modules/event/router"
	"ndrop-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes. The returned
// service is shared with the admin module and the maintenance worker.
func Init(v1 *echo.Group, db database.IDatabase, mw *middleware.Middleware) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(v1, mw)

	return svc
}
