// services/game_service.go
package services

import (
	"errors"
	"strconv"

	"sports-picks-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

// ListGames returns games by start time, optionally filtered by sport/status.
func (s *GameService) ListGames(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := s.DB.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Sport").
		Order("start_time ASC").
		Limit(limit).
		Offset(offset)

	if sportID := c.Query("sportId"); sportID != "" {
		query = query.Where("sport_id = ?", sportID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}

	return c.JSON(fiber.Map{"games": games})
}

func (s *GameService) GetGameByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	err := s.DB.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Sport").
		First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(game)
}

func (s *GameService) ListSports(c *fiber.Ctx) error {
	var sports []models.Sport
	if err := s.DB.Order("name ASC").Find(&sports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch sports"})
	}
	return c.JSON(fiber.Map{"sports": sports})
}

// SetSportActive toggles whether a sport is included in automation runs.
func (s *GameService) SetSportActive(c *fiber.Ctx) error {
	id := c.Params("id")

	type Req struct {
		Active bool `json:"active"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	res := s.DB.Model(&models.Sport{}).Where("id = ?", id).Update("active", req.Active)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update sport"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sport not found"})
	}

	return c.JSON(fiber.Map{"success": true, "sport_id": id, "active": req.Active})
}
