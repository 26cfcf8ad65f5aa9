// workers/live_score_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"sports-picks-system/models"
	"sports-picks-system/services"

	"gorm.io/gorm"
)

// LiveScoreClient refreshes scores for games currently in progress between
// the twice-daily automation ticks. It reuses the import reconciler, so a game
// the provider reports final here flows through the same settlement path —
// the atomic claim makes the overlap with a scheduled run harmless.
type LiveScoreClient struct {
	DB         *gorm.DB
	Provider   *services.ScheduleProvider
	Import     *services.ImportService
	Settlement *services.SettlementService
}

func NewLiveScoreClient(db *gorm.DB, provider *services.ScheduleProvider,
	imp *services.ImportService, settlement *services.SettlementService) *LiveScoreClient {
	return &LiveScoreClient{DB: db, Provider: provider, Import: imp, Settlement: settlement}
}

// activeSports returns sports that have at least one game in progress.
func (c *LiveScoreClient) activeSports() ([]models.Sport, error) {
	var sports []models.Sport
	err := c.DB.
		Where("active = ? AND id IN (?)", true,
			c.DB.Model(&models.Game{}).
				Select("sport_id").
				Where("status = ?", models.GameStatusInProgress),
		).
		Find(&sports).Error
	return sports, err
}

func (c *LiveScoreClient) refresh(ctx context.Context) {
	sports, err := c.activeSports()
	if err != nil {
		log.Printf("❌ [LIVE] Failed to list active sports: %v", err)
		return
	}
	if len(sports) == 0 {
		return
	}

	for _, sport := range sports {
		games, err := c.Provider.FetchSchedule(ctx, sport.Type, time.Now())
		if err != nil {
			log.Printf("❌ [LIVE] Score refresh failed for %s: %v", sport.Name, err)
			continue
		}

		summary := c.Import.ImportGames(games, &sport)
		if summary.Errors > 0 {
			log.Printf("⚠️ [LIVE] %s refresh finished with %d error(s)", sport.Name, summary.Errors)
		}

		for _, gameID := range summary.NewlyFinal {
			if _, err := c.Settlement.SettleGame(gameID); err != nil {
				log.Printf("⚠️ [LIVE] Settlement failed for game %s: %v", gameID, err)
			}
		}
	}
}

// PollLiveScores runs the refresh loop until the context is cancelled.
func PollLiveScores(ctx context.Context, client *LiveScoreClient, pollInterval time.Duration) {
	log.Println("Starting live score polling…")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Live score polling stopped.")
			return
		case <-ticker.C:
			client.refresh(ctx)
		}
	}
}
