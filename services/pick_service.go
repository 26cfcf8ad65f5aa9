// services/pick_service.go
package services

import (
	"errors"
	"strconv"
	"time"

	"sports-picks-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PickService handles pick creation and listing. Lock-time enforcement lives
// here, at the edge — settlement never sees an ineligible pick.
type PickService struct {
	DB *gorm.DB
}

func NewPickService(db *gorm.DB) *PickService {
	return &PickService{DB: db}
}

// CreatePick records a prediction on a game whose lock_time has not passed.
func (s *PickService) CreatePick(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		GameID     string `json:"game_id"`
		PickTeamID string `json:"pick_team_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.GameID == "" || req.PickTeamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_id and pick_team_id are required"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if game.IsLocked(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "picks are locked for this game"})
	}
	if req.PickTeamID != game.HomeTeamID && req.PickTeamID != game.AwayTeamID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pick_team_id is not playing in this game"})
	}

	pick := models.Pick{
		ID:         uuid.NewString(),
		UserID:     userID,
		GameID:     game.ID,
		PickTeamID: req.PickTeamID,
		Result:     models.PickResultPending,
	}
	if err := s.DB.Create(&pick).Error; err != nil {
		// The (user_id, game_id) unique index is the authority on duplicates;
		// a losing racer lands here, not in a pre-check.
		var count int64
		s.DB.Model(&models.Pick{}).
			Where("user_id = ? AND game_id = ?", userID, game.ID).
			Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pick already exists for this game"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save pick"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"pick": pick})
}

// ListPicks returns picks filtered by user and/or game, newest first.
func (s *PickService) ListPicks(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := s.DB.
		Preload("Game").
		Preload("Game.HomeTeam").
		Preload("Game.AwayTeam").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if gameID := c.Query("gameId"); gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}

	var picks []models.Pick
	if err := query.Find(&picks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch picks"})
	}

	return c.JSON(fiber.Map{"picks": picks})
}
