package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleStatus represents the lifecycle state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusApproved  ArticleStatus = "approved"
	StatusPublished ArticleStatus = "published"
	StatusRejected  ArticleStatus = "rejected"
	StatusArchived  ArticleStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPublished, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Categories is the fixed set of article categories.
var Categories = []string{
	"Politics",
	"Business",
	"Technology",
	"Sports",
	"Entertainment",
	"Science",
	"Health",
	"World",
	"India",
	"Global",
	"Opinion",
	"Lifestyle",
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Article represents a unit of news content owned by exactly one author.
type Article struct {
	ID             uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title          string        `json:"title" gorm:"size:200;not null"`
	Slug           string        `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Content        string        `json:"content" gorm:"type:text;not null"`
	Excerpt        string        `json:"excerpt" gorm:"size:500"`
	BannerImage    string        `json:"bannerImage" gorm:"size:1024"`
	AuthorID       uuid.UUID     `json:"authorId" gorm:"type:char(36);not null;index"`
	Category       string        `json:"category" gorm:"size:50;not null;index"`
	Status         ArticleStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	EditorFeedback string        `json:"editorFeedback" gorm:"type:text"`
	PublishedAt    *time.Time    `json:"publishedAt,omitempty" gorm:"index"`
	ScheduledAt    *time.Time    `json:"scheduledAt,omitempty" gorm:"index"`
	IsBreaking     bool          `json:"isBreaking" gorm:"default:false"`
	Views          int64         `json:"views" gorm:"not null;default:0;index"`
	LikesCount     int64         `json:"likes" gorm:"not null;default:0"`
	DislikesCount  int64         `json:"dislikes" gorm:"not null;default:0"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Relations
	Author     *User        `json:"-" gorm:"foreignKey:AuthorID"`
	TagRecords []ArticleTag `json:"-" gorm:"foreignKey:ArticleID"`

	// Tags mirrors TagRecords and AuthorInfo mirrors Author for the JSON representation.
	Tags       []string       `json:"tags" gorm:"-"`
	AuthorInfo *AuthorSummary `json:"author,omitempty" gorm:"-"`
}

// ArticleTag stores one free-text tag of an article.
type ArticleTag struct {
	ArticleID uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	Tag       string    `json:"tag" gorm:"size:100;primaryKey;index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if len(a.TagRecords) == 0 && len(a.Tags) > 0 {
		a.TagRecords = TagRecords(a.ID, a.Tags)
	}
	return nil
}

// AfterFind fills the JSON mirrors from preloaded relations.
func (a *Article) AfterFind(tx *gorm.DB) error {
	if a.Author != nil {
		a.AuthorInfo = a.Author.Summary()
	}
	if len(a.TagRecords) > 0 {
		a.Tags = make([]string, 0, len(a.TagRecords))
		for _, t := range a.TagRecords {
			a.Tags = append(a.Tags, t.Tag)
		}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return nil
}

// TagRecords builds the tag rows for an article.
func TagRecords(articleID uuid.UUID, tags []string) []ArticleTag {
	records := make([]ArticleTag, 0, len(tags))
	for _, t := range tags {
		records = append(records, ArticleTag{ArticleID: articleID, Tag: t})
	}
	return records
}

// IsOwnedBy reports whether userID authored the article.
func (a *Article) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && a.AuthorID == userID
}
