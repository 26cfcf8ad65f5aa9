// services/settlement_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"sports-picks-system/models"

	"gorm.io/gorm"
)

// SettlementService scores outstanding picks against finalized games.
//
// Idempotency is enforced with conditional writes instead of read-then-check:
// the game is claimed via UPDATE ... WHERE processed = false, and every pick
// write carries WHERE result = 'pending'. Overlapping runs settle each pick
// at most once.
type SettlementService struct {
	DB    *gorm.DB
	Rings *RingService
}

func NewSettlementService(db *gorm.DB, rings *RingService) *SettlementService {
	return &SettlementService{DB: db, Rings: rings}
}

// SettlementResult summarizes one game's settlement.
type SettlementResult struct {
	GameID      string `json:"game_id"`
	Claimed     bool   `json:"claimed"` // false when another run already settled it
	PicksScored int    `json:"picks_scored"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Pushes      int    `json:"pushes"`
	Errors      int    `json:"errors"`
	Message     string `json:"message,omitempty"`
}

// SettleGame settles every outstanding pick on a finalized game exactly once.
// A game with no picks is a no-op, not an error.
func (s *SettlementService) SettleGame(gameID string) (*SettlementResult, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s not found", gameID)
		}
		return nil, err
	}

	if game.Status != models.GameStatusFinal {
		return nil, fmt.Errorf("game %s is not final", gameID)
	}

	result := &SettlementResult{GameID: gameID}

	// Atomic claim — the compare-and-swap that makes re-runs and overlapping
	// schedules safe. Zero rows means another run got here first.
	claim := s.DB.Model(&models.Game{}).
		Where("id = ? AND processed = ?", gameID, false).
		Update("processed", true)
	if claim.Error != nil {
		return nil, fmt.Errorf("failed to claim game %s: %w", gameID, claim.Error)
	}
	if claim.RowsAffected == 0 {
		result.Message = "already processed"
		return result, nil
	}
	result.Claimed = true

	var picks []models.Pick
	if err := s.DB.Where("game_id = ? AND result = ?", gameID, models.PickResultPending).
		Find(&picks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch picks for game %s: %w", gameID, err)
	}

	if len(picks) == 0 {
		result.Message = "no picks to score"
		return result, nil
	}

	for _, pick := range picks {
		outcome, xp := scorePick(&pick, &game)

		// Conditional write: only a still-pending pick is settled.
		res := s.DB.Model(&models.Pick{}).
			Where("id = ? AND result = ?", pick.ID, models.PickResultPending).
			Updates(map[string]interface{}{"result": outcome, "xp_earned": xp})
		if res.Error != nil {
			result.Errors++
			log.Printf("⚠️ [SETTLE] Failed to update pick %s: %v", pick.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			// settled by a concurrent run — stats already counted there
			continue
		}

		if err := s.applyPickToProfile(pick.UserID, outcome, xp); err != nil {
			result.Errors++
			log.Printf("⚠️ [SETTLE] Failed to update stats for user %s: %v", pick.UserID, err)
			continue
		}

		if _, err := s.Rings.ClassifyUser(pick.UserID); err != nil {
			// ring drift self-heals on the next scheduled recompute
			log.Printf("⚠️ [SETTLE] Ring update failed for user %s: %v", pick.UserID, err)
		}

		result.PicksScored++
		switch outcome {
		case models.PickResultWin:
			result.Wins++
		case models.PickResultLoss:
			result.Losses++
		case models.PickResultPush:
			result.Pushes++
		}
	}

	log.Printf("✅ [SETTLE] Game %s: %d pick(s) scored (%dW/%dL/%dP, %d error(s))",
		gameID, result.PicksScored, result.Wins, result.Losses, result.Pushes, result.Errors)
	return result, nil
}

// SettleUnprocessed settles every final game not yet claimed.
func (s *SettlementService) SettleUnprocessed() ([]SettlementResult, error) {
	var games []models.Game
	if err := s.DB.Where("status = ? AND processed = ?", models.GameStatusFinal, false).
		Find(&games).Error; err != nil {
		return nil, err
	}

	results := make([]SettlementResult, 0, len(games))
	for _, g := range games {
		res, err := s.SettleGame(g.ID)
		if err != nil {
			log.Printf("⚠️ [SETTLE] Game %s failed: %v", g.ID, err)
			results = append(results, SettlementResult{GameID: g.ID, Errors: 1, Message: err.Error()})
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// scorePick classifies one pick against the final game state.
// A tied final has no winner — every pick on it is a push worth nothing.
func scorePick(pick *models.Pick, game *models.Game) (string, int64) {
	if game.WinnerID == nil {
		if game.HomeScore == game.AwayScore {
			return models.PickResultPush, 0
		}
		// defensively derive from the score pair
		winner := game.HomeTeamID
		if game.AwayScore > game.HomeScore {
			winner = game.AwayTeamID
		}
		if pick.PickTeamID == winner {
			return models.PickResultWin, models.XPPerWin
		}
		return models.PickResultLoss, 0
	}

	if pick.PickTeamID == *game.WinnerID {
		return models.PickResultWin, models.XPPerWin
	}
	return models.PickResultLoss, 0
}

// applyPickToProfile folds one settled pick into the owner's aggregates.
// Pushes count toward total picks but leave streaks untouched.
func (s *SettlementService) applyPickToProfile(userID, outcome string, xp int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.Profile
		if err := tx.Where("id = ?", userID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", userID)
		}

		prof.TotalPicks++
		prof.XP += xp

		switch outcome {
		case models.PickResultWin:
			prof.CorrectPicks++
			prof.CurrentStreak++
			if prof.CurrentStreak > prof.BestStreak {
				prof.BestStreak = prof.CurrentStreak
			}
		case models.PickResultLoss:
			prof.CurrentStreak = 0
		}

		prof.HitRate = float64(prof.CorrectPicks) / float64(prof.TotalPicks)

		return tx.Save(&prof).Error
	})
}
