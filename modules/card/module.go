package card

import (
	"ndrop-api/core/database"
	"ndrop-api/core/middleware"
	"ndrop-api/core/storage"
	"ndrop-api/modules/card/controller"
	"ndrop-api/modules/card/repository"
	"ndrop-api/modules/card/router"
	"ndrop-api/modules/card/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the card module and registers routes. The returned service
// is shared with the auth module and the maintenance worker.
func Init(v1 *echo.Group, db database.IDatabase, uploader storage.Uploader, mw *middleware.Middleware) service.CardServiceInterface {
	repo := repository.NewCardRepository(db)
	svc := service.NewCardService(repo, uploader)
	ctrl := controller.NewCardController(svc)

	router.NewCardRouter(ctrl).Register(v1, mw)

	return svc
}
