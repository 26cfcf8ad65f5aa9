// models/pick.go
package models

import "time"

const (
	PickResultPending = "pending"
	PickResultWin     = "win"
	PickResultLoss    = "loss"
	PickResultPush    = "push" // drawn game — stake returned, no XP either way
)

// XPPerWin is the fixed reward for a correct pick.
const XPPerWin int64 = 100

// Pick is a user's prediction on a game, made before lock_time.
// After creation only the settlement engine may write Result/XPEarned.
type Pick struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index:idx_picks_user_game,unique;not null"`
	GameID string `json:"game_id" gorm:"index:idx_picks_user_game,unique;not null"`

	// PickTeamID is the canonical prediction: the team expected to win.
	PickTeamID string `json:"pick_team_id" gorm:"not null"`

	Result   string `json:"result" gorm:"type:varchar(16);default:'pending';index"`
	XPEarned int64  `json:"xp_earned" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Game *Game    `json:"game,omitempty" gorm:"foreignKey:GameID"`
	User *Profile `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
