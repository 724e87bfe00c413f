// Package events publishes article lifecycle events to the message broker.
package events

import (
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/model"
)

// Event types, also used as routing keys.
const (
	TypeArticlePublished     = "article.published"
	TypeArticleStatusChanged = "article.status_changed"
)

// ArticleEvent carries enough for consumers (notifications, search indexing)
// to act without reading the database.
type ArticleEvent struct {
	Type       string              `json:"type"`
	ArticleID  uuid.UUID           `json:"articleId"`
	Slug       string              `json:"slug"`
	Title      string              `json:"title"`
	Category   string              `json:"category"`
	AuthorID   uuid.UUID           `json:"authorId"`
	ActorID    *uuid.UUID          `json:"actorId,omitempty"`
	From       model.ArticleStatus `json:"from"`
	To         model.ArticleStatus `json:"to"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// NewArticleEvent builds the event for a status change of article. Changes
// into published are reported as article.published.
func NewArticleEvent(article *model.Article, from model.ArticleStatus, actorID *uuid.UUID, now time.Time) ArticleEvent {
	eventType := TypeArticleStatusChanged
	if article.Status == model.StatusPublished {
		eventType = TypeArticlePublished
	}
	return ArticleEvent{
		Type:       eventType,
		ArticleID:  article.ID,
		Slug:       article.Slug,
		Title:      article.Title,
		Category:   article.Category,
		AuthorID:   article.AuthorID,
		ActorID:    actorID,
		From:       from,
		To:         article.Status,
		OccurredAt: now.UTC(),
	}
}
