// handlers/games.go
package handlers

import (
	"sports-picks-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	// 🔓 Public read-only routes (Gateway auth applied globally)
	app.Get("/games", gameService.ListGames)
	app.Get("/games/:id", gameService.GetGameByID)
	app.Get("/sports", gameService.ListSports)
}
