package services

import (
	"fmt"
	"testing"
	"time"

	"sports-picks-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Should open test database")

	require.NoError(t, db.AutoMigrate(
		&models.Sport{},
		&models.Team{},
		&models.Game{},
		&models.Pick{},
		&models.Profile{},
		&models.Article{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
		&models.BroadcastEvent{},
	), "Should migrate schema")

	return db
}

func seedSport(t *testing.T, db *gorm.DB, name, sportType string) *models.Sport {
	t.Helper()
	sport := &models.Sport{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: name,
		Type:        sportType,
		Active:      true,
	}
	require.NoError(t, db.Create(sport).Error)
	return sport
}

func seedTeam(t *testing.T, db *gorm.DB, sportID, name string) *models.Team {
	t.Helper()
	team := &models.Team{
		ID:           uuid.NewString(),
		SportID:      sportID,
		Name:         name,
		Abbreviation: deriveAbbreviation(name),
		City:         deriveCity(name),
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func seedGame(t *testing.T, db *gorm.DB, sport *models.Sport, home, away *models.Team, status string) *models.Game {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	game := &models.Game{
		ID:         uuid.NewString(),
		SportID:    sport.ID,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		StartTime:  start,
		LockTime:   start.Add(-models.LockOffset),
		Status:     status,
		ExternalID: "ext-" + uuid.NewString(),
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func seedProfile(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	prof := &models.Profile{
		ID:       uuid.NewString(),
		Username: username,
		Ring:     models.RingRookie,
	}
	require.NoError(t, db.Create(prof).Error)
	return prof
}

func seedPick(t *testing.T, db *gorm.DB, userID, gameID, teamID string) *models.Pick {
	t.Helper()
	pick := &models.Pick{
		ID:         uuid.NewString(),
		UserID:     userID,
		GameID:     gameID,
		PickTeamID: teamID,
		Result:     models.PickResultPending,
	}
	require.NoError(t, db.Create(pick).Error)
	return pick
}

// finalizeGame stamps a final score onto an existing game row.
func finalizeGame(t *testing.T, db *gorm.DB, game *models.Game, homeScore, awayScore int) {
	t.Helper()
	updates := map[string]interface{}{
		"status":     models.GameStatusFinal,
		"home_score": homeScore,
		"away_score": awayScore,
	}
	if homeScore > awayScore {
		updates["winner_id"] = game.HomeTeamID
	} else if awayScore > homeScore {
		updates["winner_id"] = game.AwayTeamID
	}
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", game.ID).Updates(updates).Error)
	require.NoError(t, db.First(game, "id = ?", game.ID).Error)
}
