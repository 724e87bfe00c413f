package policy

import (
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// Scope bounds which articles a list query may return.
type Scope int

const (
	// ScopePublished returns published articles only.
	ScopePublished Scope = iota
	// ScopeOwn returns published articles plus the caller's own.
	ScopeOwn
	// ScopeAll returns everything.
	ScopeAll
)

// ListScope returns the scope for a list request. Readers and anonymous
// callers asking for a non-published status are refused.
func ListScope(actor Actor, status model.ArticleStatus) (Scope, error) {
	switch {
	case actor.IsStaff():
		return ScopeAll, nil
	case actor.Authenticated() && CanWrite(actor.Role):
		return ScopeOwn, nil
	case status != "" && status != model.StatusPublished:
		return ScopePublished, errors.Forbidden("not allowed to list unpublished articles")
	default:
		return ScopePublished, nil
	}
}

// CanView reports whether the actor may read a single article. Callers
// should answer NotFound, not Forbidden, when this is false.
func CanView(article *model.Article, actor Actor) bool {
	return article.Status == model.StatusPublished || actor.IsStaff() || actor.Owns(article)
}

// CanHideComment reports whether the actor may remove a comment.
func CanHideComment(comment *model.Comment, actor Actor) bool {
	return actor.IsStaff() || (actor.Authenticated() && comment.UserID == actor.UserID)
}
