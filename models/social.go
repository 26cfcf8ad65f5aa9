// models/social.go
package models

import "time"

// Follow links a follower to the account they follow. One row per pair.
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"index:idx_follows_pair,unique;not null"`
	FollowingID string    `json:"following_id" gorm:"index:idx_follows_pair,unique;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

const NotificationTypeRingChange = "ring_change"

type Notification struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"index;not null"`
	Type    string `json:"type" gorm:"type:varchar(32);not null"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Data    string `json:"data" gorm:"type:jsonb"` // e.g., {"old_ring":"Pro","new_ring":"AllStar"}
	Seen    bool   `json:"seen" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

const BroadcastRingChange = "ring:change"

// BroadcastEvent is the realtime fan-out table; the SSE stream tails it.
type BroadcastEvent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"type:varchar(32);index;not null"`
	Payload   string    `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
