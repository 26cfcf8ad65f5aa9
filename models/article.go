// models/article.go
package models

import "time"

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a generated recap tied to a game. Write-once by content
// generation, read-only thereafter.
type Article struct {
	ID      string `json:"id" gorm:"primaryKey"`
	GameID  string `json:"game_id" gorm:"uniqueIndex;not null"` // one recap per game
	SportID string `json:"sport_id" gorm:"index"`

	Slug     string `json:"slug" gorm:"uniqueIndex"`
	Title    string `json:"title" gorm:"not null"`
	Content  string `json:"content" gorm:"type:text"`
	ImageURL string `json:"image_url"`

	Status      string     `json:"status" gorm:"type:varchar(16);default:'published'"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Game  *Game  `json:"game,omitempty" gorm:"foreignKey:GameID"`
	Sport *Sport `json:"sport,omitempty" gorm:"foreignKey:SportID"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:ArticleID"`
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ArticleID string    `json:"article_id" gorm:"index;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
