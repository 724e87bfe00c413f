package model

import (
	"time"

	"github.com/google/uuid"
)

// SavedArticle is a bookmark of an article by a user.
type SavedArticle struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);primaryKey"`
	ArticleID uuid.UUID `json:"articleId" gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReadingHistory records that a user opened a published article.
type ReadingHistory struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);primaryKey"`
	ArticleID uuid.UUID `json:"articleId" gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the singular noun as a plural table name.
func (ReadingHistory) TableName() string {
	return "reading_history"
}
