// handlers/admin.go
package handlers

import (
	"time"

	"sports-picks-system/middleware"
	"sports-picks-system/models"
	"sports-picks-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the on-demand pipeline functions: game import,
// scoring, ring recomputation, article generation and full automation runs.
func SetupAdminRoutes(app *fiber.App,
	automation *services.AutomationService,
	settlement *services.SettlementService,
	rings *services.RingService,
	articles *services.ArticleService,
	games *services.GameService,
) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/import-games", func(c *fiber.Ctx) error {
		type Req struct {
			Sport string `json:"sport"` // empty = all active sports
		}
		var req Req
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		var sports []models.Sport
		query := automation.DB.Where("active = ?", true)
		if req.Sport != "" {
			query = query.Where("name = ?", req.Sport)
		}
		if err := query.Find(&sports).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if len(sports) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no matching sports"})
		}

		results := fiber.Map{}
		for _, sport := range sports {
			externalGames, err := automation.Provider.FetchSchedule(c.Context(), sport.Type, time.Now())
			if err != nil {
				results[sport.Name] = fiber.Map{"error": err.Error()}
				continue
			}
			results[sport.Name] = automation.Import.ImportGames(externalGames, &sport)
		}

		return c.JSON(fiber.Map{"success": true, "results": results})
	})

	admin.Post("/score-games", func(c *fiber.Ctx) error {
		type Req struct {
			GameID string `json:"game_id"` // empty = all unprocessed final games
		}
		var req Req
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		if req.GameID != "" {
			res, err := settlement.SettleGame(req.GameID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"success": true, "results": []services.SettlementResult{*res}})
		}

		results, err := settlement.SettleUnprocessed()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if len(results) == 0 {
			return c.JSON(fiber.Map{"success": true, "message": "No games to process"})
		}
		return c.JSON(fiber.Map{"success": true, "results": results})
	})

	admin.Post("/calc-rings", func(c *fiber.Ctx) error {
		changes, err := rings.ClassifyAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		changed := make([]services.RingChange, 0)
		for _, ch := range changes {
			if ch.Changed {
				changed = append(changed, ch)
			}
		}
		return c.JSON(fiber.Map{
			"success":         true,
			"users_processed": len(changes),
			"ring_changes":    len(changed),
			"results":         changed,
		})
	})

	admin.Post("/generate-article", func(c *fiber.Ctx) error {
		type Req struct {
			GameID string `json:"game_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.GameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_id is required"})
		}

		article, err := articles.GenerateRecap(c.Context(), req.GameID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if article == nil {
			return c.JSON(fiber.Map{"success": false, "message": "article generation disabled"})
		}
		return c.JSON(fiber.Map{"success": true, "article": article})
	})

	admin.Post("/run-automation", func(c *fiber.Ctx) error {
		summary, err := automation.RunAutomation(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "summary": summary})
	})

	admin.Post("/sports/:id/active", games.SetSportActive)
}
