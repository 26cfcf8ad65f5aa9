// models/game.go
package models

import "time"

const (
	GameStatusScheduled  = "scheduled"
	GameStatusInProgress = "in_progress"
	GameStatusFinal      = "final"
	GameStatusCancelled  = "cancelled"
)

// LockOffset is how long before start_time picks close.
const LockOffset = 5 * time.Minute

type Game struct {
	ID         string `json:"id" gorm:"primaryKey"`
	SportID    string `json:"sport_id" gorm:"index;not null"`
	HomeTeamID string `json:"home_team_id" gorm:"not null"`
	AwayTeamID string `json:"away_team_id" gorm:"not null"`

	StartTime time.Time `json:"start_time" gorm:"index"`
	LockTime  time.Time `json:"lock_time"` // start_time - LockOffset

	Status    string  `json:"status" gorm:"type:varchar(16);default:'scheduled';index"`
	HomeScore int     `json:"home_score" gorm:"default:0"`
	AwayScore int     `json:"away_score" gorm:"default:0"`
	WinnerID  *string `json:"winner_id,omitempty"` // nil until final; always home or away team

	Venue string `json:"venue"`

	// ExternalID is the provider's natural key — the idempotency anchor for imports.
	ExternalID string `json:"external_id" gorm:"uniqueIndex;not null"`

	// Processed guards double-settlement; flipped atomically by the settlement engine.
	Processed bool `json:"processed" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	HomeTeam *Team  `json:"home_team,omitempty" gorm:"foreignKey:HomeTeamID"`
	AwayTeam *Team  `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID"`
	Sport    *Sport `json:"sport,omitempty" gorm:"foreignKey:SportID"`
}

// IsLocked reports whether picks for the game are closed at t.
func (g *Game) IsLocked(t time.Time) bool {
	return !t.Before(g.LockTime)
}
