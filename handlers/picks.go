// handlers/picks.go
package handlers

import (
	"sports-picks-system/middleware"
	"sports-picks-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPickRoutes(app *fiber.App, pickService *services.PickService) {
	app.Get("/picks", pickService.ListPicks)

	// 🔐 Creating a pick requires user context (per-route, GET stays public)
	app.Post("/picks", middleware.UserContextMiddleware(), pickService.CreatePick)
}
