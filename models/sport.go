// models/sport.go
package models

import "time"

// Sport is one supported league. Type is the provider's path segment
// (nba, nfl, ...); Active gates whether automation fetches its schedule.
type Sport struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type" gorm:"type:varchar(16);not null"`
	IconURL     string `json:"icon_url"`
	Active      bool   `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Team is created lazily the first time the provider mentions it.
// Abbreviation and City are derived from the name when absent upstream.
type Team struct {
	ID           string `json:"id" gorm:"primaryKey"`
	SportID      string `json:"sport_id" gorm:"index:idx_teams_sport_name,unique;not null"`
	Name         string `json:"name" gorm:"index:idx_teams_sport_name,unique;not null"`
	Abbreviation string `json:"abbreviation" gorm:"type:varchar(8)"`
	City         string `json:"city"`
	LogoURL      string `json:"logo_url"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Sport *Sport `json:"sport,omitempty" gorm:"foreignKey:SportID"`
}
