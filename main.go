package main

import (
	"ndrop-api/core/logger"
	"ndrop-api/core/server"
)

// @title ndrop API
// @version 1.0
// @description Event networking backend: join events, exchange digital business cards, book meetings.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
