package model

import (
	"time"

	"github.com/google/uuid"
)

// TargetType names the entity a reaction belongs to.
type TargetType string

const (
	TargetArticle TargetType = "article"
	TargetComment TargetType = "comment"
)

// ReactionKind is either like or dislike.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reaction is one user's like or dislike on one entity. The primary key
// admits a single row per (target, user), so a user can never be in both
// the like and dislike sets.
type Reaction struct {
	TargetType TargetType   `json:"targetType" gorm:"type:varchar(10);primaryKey"`
	TargetID   uuid.UUID    `json:"targetId" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID    `json:"userId" gorm:"type:char(36);primaryKey;index"`
	Kind       ReactionKind `json:"kind" gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ReactionCounts is what callers get back after a reaction: set sizes only.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}
