// handlers/social.go
package handlers

import (
	"sports-picks-system/middleware"
	"sports-picks-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, socialService *services.SocialService, authClient *services.AuthServiceClient) {
	// 🔓 Public
	app.Get("/leaderboard", socialService.GetLeaderboard)
	app.Get("/follows", socialService.ListFollows)

	// 🔐 Secured routes — require user context. Applied per route so the
	// public reads above and the SSE stream below stay reachable.
	app.Post("/follows", middleware.UserContextMiddleware(), socialService.Follow)
	app.Get("/notifications", middleware.UserContextMiddleware(), socialService.ListNotifications)
	app.Patch("/notifications/:id/seen", middleware.UserContextMiddleware(), socialService.MarkNotificationSeen)

	// SSE stream authenticates via query params (EventSource cannot set headers)
	app.Get("/notifications/stream",
		middleware.SSEAuthMiddleware(authClient),
		socialService.StreamNotificationsSSE)
}
