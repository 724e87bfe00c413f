package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility is the moderation state of a comment. Hidden comments are kept
// in storage but never returned by the public read paths.
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// Hidden reasons recorded when a comment is removed.
const (
	HiddenByAuthor    = "removed by author"
	HiddenByModerator = "removed by moderator"
)

// MaxCommentLength is the maximum number of characters in a comment.
const MaxCommentLength = 2000

// Comment is a reader comment on an article. Replies are one level deep.
type Comment struct {
	ID            uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	ArticleID     uuid.UUID      `json:"articleId" gorm:"type:char(36);not null;index"`
	ParentID      *uuid.UUID     `json:"parentId" gorm:"type:char(36);index"`
	UserID        uuid.UUID      `json:"userId" gorm:"type:char(36);not null;index"`
	Text          string         `json:"text" gorm:"size:2000;not null"`
	LikesCount    int64          `json:"likes" gorm:"not null;default:0"`
	DislikesCount int64          `json:"dislikes" gorm:"not null;default:0"`
	Visibility    Visibility     `json:"visibility" gorm:"type:varchar(10);not null;default:'visible';index"`
	HiddenReason  string         `json:"hiddenReason,omitempty" gorm:"size:100"`
	IsFlagged     bool           `json:"isFlagged" gorm:"not null;default:false"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`

	UserInfo *AuthorSummary `json:"user,omitempty" gorm:"-"`
	Replies  []*Comment     `json:"replies,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Visibility == "" {
		c.Visibility = VisibilityVisible
	}
	return nil
}

// AfterFind fills UserInfo from the preloaded user.
func (c *Comment) AfterFind(tx *gorm.DB) error {
	if c.User != nil {
		c.UserInfo = c.User.Summary()
	}
	return nil
}

// IsVisible reports whether the comment may be shown publicly.
func (c *Comment) IsVisible() bool {
	return c.Visibility != VisibilityHidden
}
