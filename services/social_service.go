// services/social_service.go
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

// SocialService serves the community surface: leaderboard, follows and
// notifications.
type SocialService struct {
	DB *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{DB: db}
}

// GetLeaderboard ranks profiles by XP. The weekly/monthly timeframes narrow to
// profiles active in the window, mirroring the product's tabs.
func (s *SocialService) GetLeaderboard(c *fiber.Ctx) error {
	timeframe := c.Query("timeframe", "all")
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := s.DB.Model(&models.Profile{}).
		Order("xp DESC").
		Limit(limit).
		Offset(offset)

	switch timeframe {
	case "weekly":
		query = query.Where("updated_at >= ?", time.Now().AddDate(0, 0, -7))
	case "monthly":
		query = query.Where("updated_at >= ?", time.Now().AddDate(0, -1, 0))
	}

	var leaderboard []models.Profile
	if err := query.Find(&leaderboard).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch leaderboard"})
	}

	return c.JSON(fiber.Map{"leaderboard": leaderboard, "timeframe": timeframe})
}

// ListFollows returns followers of, or accounts followed by, a user.
func (s *SocialService) ListFollows(c *fiber.Ctx) error {
	userID := c.Query("userId")
	listType := c.Query("type", "followers")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID is required"})
	}

	var follows []models.Follow
	var err error
	if listType == "following" {
		err = s.DB.Where("follower_id = ?", userID).Order("created_at DESC").Find(&follows).Error
	} else {
		listType = "followers"
		err = s.DB.Where("following_id = ?", userID).Order("created_at DESC").Find(&follows).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch follows"})
	}

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		if listType == "following" {
			ids = append(ids, f.FollowingID)
		} else {
			ids = append(ids, f.FollowerID)
		}
	}

	var profiles []models.Profile
	if len(ids) > 0 {
		if err := s.DB.Select("id, username, avatar_url, ring").
			Where("id IN ?", ids).
			Find(&profiles).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch profiles"})
		}
	}

	return c.JSON(fiber.Map{listType: profiles, "type": listType})
}

// Follow creates or removes a follow edge. Following yourself is rejected;
// following someone twice is a tolerated no-op.
func (s *SocialService) Follow(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		FollowingID string `json:"following_id"`
		Action      string `json:"action"` // follow | unfollow
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.FollowingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID to follow is required"})
	}
	if req.FollowingID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot follow yourself"})
	}

	var target models.Profile
	if err := s.DB.Select("id").First(&target, "id = ?", req.FollowingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User to follow not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if req.Action == "unfollow" {
		if err := s.DB.Where("follower_id = ? AND following_id = ?", userID, req.FollowingID).
			Delete(&models.Follow{}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to unfollow"})
		}
		return c.JSON(fiber.Map{"success": true, "action": "unfollow"})
	}

	var existing models.Follow
	err := s.DB.Where("follower_id = ? AND following_id = ?", userID, req.FollowingID).
		First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "action": "follow", "message": "Already following this user"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	follow := models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  userID,
		FollowingID: req.FollowingID,
	}
	if err := s.DB.Create(&follow).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to follow"})
	}

	return c.JSON(fiber.Map{"success": true, "action": "follow", "follow": follow})
}

func (s *SocialService) ListNotifications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var notifications []models.Notification
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch notifications"})
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

func (s *SocialService) MarkNotificationSeen(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("seen", true)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update notification"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
