package models

import (
	"time"

	"gorm.io/gorm"
)

// Ring tier names in descending prestige order.
const (
	RingHallOfFame = "HallOfFame"
	RingMVP        = "MVP"
	RingAllStar    = "AllStar"
	RingPro        = "Pro"
	RingRookie     = "Rookie"
)

// Profile tracks a fan's pick record and ring tier (denormalized for leaderboards).
// The ID is the external auth service's user id; rows are mirrored in by the
// profile sync worker and mutated only by the settlement/ring services.
type Profile struct {
	ID        string `json:"id" gorm:"primaryKey"` // external auth id
	Username  string `json:"username" gorm:"index;not null"`
	AvatarURL string `json:"avatar_url"`

	XP           int64   `json:"xp" gorm:"default:0"`
	CorrectPicks int64   `json:"correct_picks" gorm:"default:0"`
	TotalPicks   int64   `json:"total_picks" gorm:"default:0"`
	HitRate      float64 `json:"hit_rate" gorm:"default:0"` // correct/total, maintained on settlement

	CurrentStreak int64 `json:"current_streak" gorm:"default:0"`
	BestStreak    int64 `json:"best_streak" gorm:"default:0"`

	Ring string `json:"ring" gorm:"type:varchar(16);default:'Rookie'"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
