// services/ring_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"

	"sports-picks-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RingThreshold is one rule of the classification table.
type RingThreshold struct {
	Name       string  `json:"name"`
	MinHitRate float64 `json:"min_hit_rate"`
	MinPicks   int64   `json:"min_picks"`
}

// RingThresholds is evaluated top-down, most prestigious first; the first
// matching rule wins. A user meeting HallOfFame is never classified lower.
var RingThresholds = []RingThreshold{
	{Name: models.RingHallOfFame, MinHitRate: 0.70, MinPicks: 50},
	{Name: models.RingMVP, MinHitRate: 0.65, MinPicks: 30},
	{Name: models.RingAllStar, MinHitRate: 0.60, MinPicks: 20},
	{Name: models.RingPro, MinHitRate: 0.55, MinPicks: 10},
	{Name: models.RingRookie, MinHitRate: 0, MinPicks: 1},
}

// DetermineRing maps current aggregates to a tier. Pure — safe to re-run for
// every user on every schedule tick.
func DetermineRing(hitRate float64, totalPicks int64) string {
	for _, t := range RingThresholds {
		if hitRate >= t.MinHitRate && totalPicks >= t.MinPicks {
			return t.Name
		}
	}
	return models.RingRookie
}

type RingService struct {
	DB *gorm.DB
}

func NewRingService(db *gorm.DB) *RingService {
	return &RingService{DB: db}
}

// RingChange reports one user's classification outcome.
type RingChange struct {
	UserID     string  `json:"user_id"`
	OldRing    string  `json:"old_ring"`
	NewRing    string  `json:"new_ring"`
	HitRate    float64 `json:"hit_rate"`
	TotalPicks int64   `json:"total_picks"`
	Changed    bool    `json:"ring_changed"`
}

// ClassifyUser recomputes one user's ring. Unchanged tier means no write and
// no notification; a change persists the tier and emits notification +
// broadcast carrying {user_id, old_ring, new_ring}.
func (s *RingService) ClassifyUser(userID string) (*RingChange, error) {
	var prof models.Profile
	if err := s.DB.Where("id = ?", userID).First(&prof).Error; err != nil {
		return nil, fmt.Errorf("profile not found for %s", userID)
	}

	newRing := DetermineRing(prof.HitRate, prof.TotalPicks)
	change := &RingChange{
		UserID:     prof.ID,
		OldRing:    prof.Ring,
		NewRing:    newRing,
		HitRate:    prof.HitRate,
		TotalPicks: prof.TotalPicks,
		Changed:    prof.Ring != newRing,
	}

	if !change.Changed {
		return change, nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Profile{}).
			Where("id = ?", prof.ID).
			Update("ring", newRing).Error; err != nil {
			return err
		}

		data, _ := json.Marshal(map[string]string{
			"old_ring": change.OldRing,
			"new_ring": change.NewRing,
		})
		notif := models.Notification{
			ID:      uuid.NewString(),
			UserID:  prof.ID,
			Type:    models.NotificationTypeRingChange,
			Title:   "Ring Level Changed!",
			Message: fmt.Sprintf("Congratulations! You've been promoted from %s to %s!", change.OldRing, change.NewRing),
			Data:    string(data),
		}
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]string{
			"user_id":  prof.ID,
			"old_ring": change.OldRing,
			"new_ring": change.NewRing,
		})
		event := models.BroadcastEvent{
			ID:      uuid.NewString(),
			Type:    models.BroadcastRingChange,
			Payload: string(payload),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💍 [RINGS] %s: %s → %s (hit_rate=%.2f, picks=%d)",
		prof.ID, change.OldRing, change.NewRing, prof.HitRate, prof.TotalPicks)
	return change, nil
}

// ClassifyAll re-runs classification for every user with at least one pick.
// Per-user failures are logged and skipped.
func (s *RingService) ClassifyAll() ([]RingChange, error) {
	var profiles []models.Profile
	if err := s.DB.Where("total_picks > 0").Find(&profiles).Error; err != nil {
		return nil, err
	}

	var changes []RingChange
	for _, p := range profiles {
		change, err := s.ClassifyUser(p.ID)
		if err != nil {
			log.Printf("⚠️ [RINGS] Failed to classify user %s: %v", p.ID, err)
			continue
		}
		changes = append(changes, *change)
	}
	return changes, nil
}
