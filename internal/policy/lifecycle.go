package policy

import (
	"time"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// Change describes a status transition applied to an article.
type Change struct {
	From     model.ArticleStatus
	To       model.ArticleStatus
	Feedback string
}

// InitialStatus returns the status a new article starts in. Authors may
// only start in draft or pending; staff may pick any known status.
func InitialStatus(actor Actor, requested model.ArticleStatus) model.ArticleStatus {
	if requested == "" || !requested.Valid() {
		return model.StatusDraft
	}
	if actor.IsStaff() {
		return requested
	}
	if requested == model.StatusPending {
		return model.StatusPending
	}
	return model.StatusDraft
}

// SubmitForReview moves the owner's draft or rejected article to pending.
func SubmitForReview(article *model.Article, actor Actor) (*Change, error) {
	if !actor.Owns(article) {
		return nil, errors.Forbidden("only the author can submit an article for review")
	}
	if article.Status != model.StatusDraft && article.Status != model.StatusRejected {
		return nil, errors.Transition("only draft or rejected articles can be submitted for review")
	}
	return apply(article, model.StatusPending), nil
}

// Review records an editor decision on an article.
func Review(article *model.Article, actor Actor, decision model.ArticleStatus, feedback string) (*Change, error) {
	if !actor.IsStaff() {
		return nil, errors.Forbidden("only editors can review articles")
	}
	if decision != model.StatusApproved && decision != model.StatusRejected {
		return nil, errors.Invalid("decision must be approved or rejected")
	}
	change := apply(article, decision)
	article.EditorFeedback = feedback
	change.Feedback = feedback
	return change, nil
}

// Publish makes an article public and stamps publishedAt. Publishing an
// already published article stamps it again.
func Publish(article *model.Article, actor Actor, now time.Time) (*Change, error) {
	if !actor.IsStaff() {
		return nil, errors.Forbidden("only editors can publish articles")
	}
	change := apply(article, model.StatusPublished)
	article.PublishedAt = &now
	return change, nil
}

// ChangeStatus handles a status set through the generic update path.
func ChangeStatus(article *model.Article, actor Actor, target model.ArticleStatus, now time.Time) (*Change, error) {
	if !target.Valid() {
		return nil, errors.Invalid("unknown status")
	}
	if actor.IsStaff() {
		change := apply(article, target)
		if target == model.StatusPublished {
			article.PublishedAt = &now
		}
		return change, nil
	}
	if !actor.Owns(article) {
		return nil, errors.Forbidden("not allowed to change the status of this article")
	}
	switch target {
	case model.StatusPending:
		return SubmitForReview(article, actor)
	case model.StatusDraft:
		switch article.Status {
		case model.StatusDraft, model.StatusPending, model.StatusRejected:
			return apply(article, model.StatusDraft), nil
		}
		return nil, errors.Transition("article can no longer be moved back to draft")
	default:
		return nil, errors.Transition("authors can only set draft or pending")
	}
}

// CheckEdit decides whether the actor may change the content of an article.
func CheckEdit(article *model.Article, actor Actor) error {
	if actor.IsStaff() {
		return nil
	}
	if !actor.Owns(article) {
		return errors.Forbidden("not allowed to edit this article")
	}
	switch article.Status {
	case model.StatusDraft, model.StatusPending, model.StatusRejected:
		return nil
	}
	return errors.Forbidden("article is locked for editing")
}

// CheckDelete decides whether the actor may delete an article. Admins
// always may, editors never, authors only their own drafts.
func CheckDelete(article *model.Article, actor Actor) error {
	switch {
	case actor.Role == model.RoleAdmin:
		return nil
	case actor.Role == model.RoleEditor:
		return errors.Forbidden("editors cannot delete articles")
	case actor.Owns(article) && article.Status == model.StatusDraft:
		return nil
	case actor.Owns(article):
		return errors.Forbidden("only draft articles can be deleted")
	default:
		return errors.Forbidden("not allowed to delete this article")
	}
}

// CheckHistory decides whether the actor may read the transition log.
func CheckHistory(article *model.Article, actor Actor) error {
	if actor.IsStaff() || actor.Owns(article) {
		return nil
	}
	return errors.ErrArticleNotFound
}

func apply(article *model.Article, to model.ArticleStatus) *Change {
	change := &Change{From: article.Status, To: to}
	article.Status = to
	return change
}
