// handlers/articles.go
package handlers

import (
	"sports-picks-system/middleware"
	"sports-picks-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupArticleRoutes(app *fiber.App, articleService *services.ArticleService) {
	// 🔓 Public routes — *no user context*, but **still require Gateway auth**
	app.Get("/articles", articleService.ListArticles)
	app.Get("/articles/:id", articleService.GetArticleByID)
	app.Get("/articles/:id/comments", articleService.ListComments)

	// 🔐 Secured routes — require user context. Per-route middleware: a
	// Use on "/" would gate every route registered after this setup runs.
	app.Post("/articles/:id/comments", middleware.UserContextMiddleware(), articleService.CreateComment)
}
