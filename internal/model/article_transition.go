package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleTransition is an append-only record of one status change.
// ActorID is nil when the change was made by the scheduler.
type ArticleTransition struct {
	ID         uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	ArticleID  uuid.UUID     `json:"articleId" gorm:"type:char(36);not null;index"`
	ActorID    *uuid.UUID    `json:"actorId,omitempty" gorm:"type:char(36);index"`
	FromStatus ArticleStatus `json:"from" gorm:"type:varchar(20);not null"`
	ToStatus   ArticleStatus `json:"to" gorm:"type:varchar(20);not null;index"`
	Feedback   string        `json:"feedback,omitempty" gorm:"type:text"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *ArticleTransition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
