// services/import_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sports-picks-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportService reconciles normalized provider games into internal rows.
// Games are keyed by external_id; teams are created lazily on first sight.
type ImportService struct {
	DB *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{DB: db}
}

// ImportDetail records what happened to a single provider game.
type ImportDetail struct {
	Type       string `json:"type"` // create | update | error
	ExternalID string `json:"external_id"`
	GameID     string `json:"game_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ImportSummary is the per-sport batch result. A single game's failure is
// tallied here and never aborts the rest of the batch.
type ImportSummary struct {
	Sport      string         `json:"sport"`
	Created    int            `json:"created"`
	Updated    int            `json:"updated"`
	Errors     int            `json:"errors"`
	Details    []ImportDetail `json:"details"`
	NewlyFinal []string       `json:"newly_final,omitempty"` // game IDs handed to settlement
}

// MapStatus translates the provider's status vocabulary to ours.
// Anything unrecognized is treated as scheduled.
func MapStatus(externalStatus string) string {
	switch strings.ToLower(externalStatus) {
	case "scheduled", "created", "upcoming":
		return models.GameStatusScheduled
	case "in_progress", "active", "live":
		return models.GameStatusInProgress
	case "final", "completed", "closed":
		return models.GameStatusFinal
	case "cancelled", "canceled", "postponed":
		return models.GameStatusCancelled
	default:
		return models.GameStatusScheduled
	}
}

func deriveAbbreviation(name string) string {
	cleaned := strings.ReplaceAll(name, " ", "")
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	return strings.ToUpper(cleaned)
}

func deriveCity(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// findOrCreateTeam looks a team up by (sport_id, name), creating it with a
// derived abbreviation/city when the provider mentions it for the first time.
func (s *ImportService) findOrCreateTeam(tx *gorm.DB, sportID, name string) (*models.Team, error) {
	if name == "" {
		return nil, fmt.Errorf("empty team name")
	}

	var team models.Team
	err := tx.Where("sport_id = ? AND name = ?", sportID, name).First(&team).Error
	if err == nil {
		return &team, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team = models.Team{
		ID:           uuid.NewString(),
		SportID:      sportID,
		Name:         name,
		Abbreviation: deriveAbbreviation(name),
		City:         deriveCity(name),
	}
	if err := tx.Create(&team).Error; err != nil {
		return nil, fmt.Errorf("failed to create team %q: %w", name, err)
	}
	return &team, nil
}

// ImportGames reconciles a provider batch for one sport and reports a summary.
func (s *ImportService) ImportGames(games []ExternalGame, sport *models.Sport) *ImportSummary {
	summary := &ImportSummary{Sport: sport.Name}

	for _, g := range games {
		detail, newlyFinal, err := s.reconcileGame(g, sport)
		if err != nil {
			summary.Errors++
			summary.Details = append(summary.Details, ImportDetail{
				Type:       "error",
				ExternalID: g.ID,
				Error:      err.Error(),
			})
			log.Printf("⚠️ [IMPORT] %s game %s: %v", sport.Name, g.ID, err)
			continue
		}

		summary.Details = append(summary.Details, *detail)
		switch detail.Type {
		case "create":
			summary.Created++
		case "update":
			summary.Updated++
		}
		if newlyFinal {
			summary.NewlyFinal = append(summary.NewlyFinal, detail.GameID)
		}
	}

	return summary
}

// reconcileGame maps one provider record onto the internal Game row.
// Returns newlyFinal=true when the stored status was not final and the
// incoming one is — those games are handed to the settlement engine.
func (s *ImportService) reconcileGame(g ExternalGame, sport *models.Sport) (*ImportDetail, bool, error) {
	homeTeam, err := s.findOrCreateTeam(s.DB, sport.ID, g.HomeTeam)
	if err != nil {
		return nil, false, err
	}
	awayTeam, err := s.findOrCreateTeam(s.DB, sport.ID, g.AwayTeam)
	if err != nil {
		return nil, false, err
	}

	status := MapStatus(g.Status)
	winnerID := resolveWinner(g, status, homeTeam, awayTeam)

	var existing models.Game
	err = s.DB.Where("external_id = ?", g.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		game := models.Game{
			ID:         uuid.NewString(),
			SportID:    sport.ID,
			HomeTeamID: homeTeam.ID,
			AwayTeamID: awayTeam.ID,
			StartTime:  g.StartTime,
			LockTime:   g.StartTime.Add(-models.LockOffset),
			Status:     status,
			HomeScore:  g.HomeScore,
			AwayScore:  g.AwayScore,
			WinnerID:   winnerID,
			Venue:      g.Venue,
			ExternalID: g.ID,
		}
		if err := s.DB.Create(&game).Error; err != nil {
			return nil, false, fmt.Errorf("failed to insert game: %w", err)
		}
		return &ImportDetail{Type: "create", ExternalID: g.ID, GameID: game.ID},
			status == models.GameStatusFinal, nil
	}
	if err != nil {
		return nil, false, err
	}

	newlyFinal := existing.Status != models.GameStatusFinal && status == models.GameStatusFinal

	updates := map[string]interface{}{
		"start_time": g.StartTime,
		"lock_time":  g.StartTime.Add(-models.LockOffset),
		"status":     status,
		"home_score": g.HomeScore,
		"away_score": g.AwayScore,
		"venue":      g.Venue,
		"updated_at": time.Now(),
	}
	if winnerID != nil {
		updates["winner_id"] = *winnerID
	}
	if err := s.DB.Model(&models.Game{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update game: %w", err)
	}

	return &ImportDetail{Type: "update", ExternalID: g.ID, GameID: existing.ID}, newlyFinal, nil
}

// resolveWinner maps the provider's winner (a team name) or the score pair to
// an internal team id. Tied finals stay nil — settlement pushes those picks.
func resolveWinner(g ExternalGame, status string, home, away *models.Team) *string {
	if status != models.GameStatusFinal {
		return nil
	}
	switch g.Winner {
	case home.Name:
		return &home.ID
	case away.Name:
		return &away.ID
	}
	if g.HomeScore > g.AwayScore {
		return &home.ID
	}
	if g.AwayScore > g.HomeScore {
		return &away.ID
	}
	return nil
}
