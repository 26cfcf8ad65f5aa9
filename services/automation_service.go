// services/automation_service.go
package services

import (
	"context"
	"log"
	"time"

	"sports-picks-system/models"

	"gorm.io/gorm"
)

// SportConfig is the per-run ingestion target list. It is built fresh at the
// start of every invocation and passed through explicitly — no package-level
// lookup table to go stale between runs.
type SportConfig struct {
	SportID string
	Name    string
	Type    string // provider path segment
}

// AutomationService runs the twice-daily pipeline:
// fetch → reconcile → settle newly-final → classify rings → generate recaps.
type AutomationService struct {
	DB         *gorm.DB
	Provider   *ScheduleProvider
	Import     *ImportService
	Settlement *SettlementService
	Rings      *RingService
	Articles   *ArticleService
}

func NewAutomationService(db *gorm.DB, provider *ScheduleProvider, imp *ImportService,
	settlement *SettlementService, rings *RingService, articles *ArticleService) *AutomationService {
	return &AutomationService{
		DB:         db,
		Provider:   provider,
		Import:     imp,
		Settlement: settlement,
		Rings:      rings,
		Articles:   articles,
	}
}

// AutomationSummary is the batch report for one run. A bad run produces a
// partial result here, never a crash.
type AutomationSummary struct {
	StartedAt         time.Time          `json:"started_at"`
	DurationMS        int64              `json:"duration_ms"`
	Sports            []ImportSummary    `json:"sports"`
	SportsFailed      []string           `json:"sports_failed,omitempty"`
	Settlements       []SettlementResult `json:"settlements,omitempty"`
	PicksScored       int                `json:"picks_scored"`
	ArticlesGenerated int                `json:"articles_generated"`
}

func (s *AutomationService) loadSportConfigs() ([]SportConfig, error) {
	var sports []models.Sport
	if err := s.DB.Where("active = ?", true).Find(&sports).Error; err != nil {
		return nil, err
	}

	configs := make([]SportConfig, 0, len(sports))
	for _, sp := range sports {
		configs = append(configs, SportConfig{SportID: sp.ID, Name: sp.Name, Type: sp.Type})
	}
	return configs, nil
}

// RunAutomation executes one pipeline pass over every active sport.
// A sport whose schedule cannot be fetched is skipped for this run; the next
// scheduled tick retries naturally.
func (s *AutomationService) RunAutomation(ctx context.Context) (*AutomationSummary, error) {
	started := time.Now()
	log.Println("🏁 [AUTOMATION] Starting sports automation run")

	configs, err := s.loadSportConfigs()
	if err != nil {
		return nil, err
	}

	summary := &AutomationSummary{StartedAt: started}

	for _, cfg := range configs {
		games, err := s.Provider.FetchSchedule(ctx, cfg.Type, started)
		if err != nil {
			log.Printf("❌ [AUTOMATION] Schedule fetch failed for %s: %v", cfg.Name, err)
			summary.SportsFailed = append(summary.SportsFailed, cfg.Name)
			continue
		}

		sport := models.Sport{ID: cfg.SportID, Name: cfg.Name, Type: cfg.Type}
		importSummary := s.Import.ImportGames(games, &sport)
		summary.Sports = append(summary.Sports, *importSummary)

		for _, gameID := range importSummary.NewlyFinal {
			res, err := s.Settlement.SettleGame(gameID)
			if err != nil {
				log.Printf("⚠️ [AUTOMATION] Settlement failed for game %s: %v", gameID, err)
				continue
			}
			summary.Settlements = append(summary.Settlements, *res)
			summary.PicksScored += res.PicksScored

			if article, err := s.Articles.GenerateRecap(ctx, gameID); err != nil {
				log.Printf("⚠️ [AUTOMATION] Recap generation failed for game %s: %v", gameID, err)
			} else if article != nil {
				summary.ArticlesGenerated++
			}
		}
	}

	// Sweep up any final games an earlier failed run left unsettled.
	leftovers, err := s.Settlement.SettleUnprocessed()
	if err != nil {
		log.Printf("⚠️ [AUTOMATION] Leftover settlement sweep failed: %v", err)
	} else {
		for _, res := range leftovers {
			if res.Claimed {
				summary.Settlements = append(summary.Settlements, res)
				summary.PicksScored += res.PicksScored
			}
		}
	}

	summary.DurationMS = time.Since(started).Milliseconds()
	log.Printf("✅ [AUTOMATION] Run complete: %d sport(s), %d pick(s) scored, %d article(s), %d sport(s) failed (%dms)",
		len(summary.Sports), summary.PicksScored, summary.ArticlesGenerated,
		len(summary.SportsFailed), summary.DurationMS)
	return summary, nil
}
