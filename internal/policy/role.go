// Package policy holds the role and lifecycle rules of the newsroom. Every
// function here is pure: callers load state, ask for a decision, then persist.
package policy

import (
	"github.com/google/uuid"

	"newsdesk/internal/model"
)

// Actor is the authenticated caller of an operation. The zero value is an
// anonymous caller.
type Actor struct {
	UserID uuid.UUID
	Role   model.Role
}

// Authenticated reports whether the actor carries a session.
func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

// IsStaff reports whether the actor is an editor or admin.
func (a Actor) IsStaff() bool {
	return IsStaff(a.Role)
}

// Owns reports whether the actor is the author of the article.
func (a Actor) Owns(article *model.Article) bool {
	return article != nil && article.IsOwnedBy(a.UserID)
}

// HasRole reports whether role is one of allowed.
func HasRole(role model.Role, allowed ...model.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Rank returns the position of role in the admin > editor > author > reader
// hierarchy. Unknown roles rank 0.
func Rank(role model.Role) int {
	switch role {
	case model.RoleAdmin:
		return 4
	case model.RoleEditor:
		return 3
	case model.RoleAuthor:
		return 2
	case model.RoleReader:
		return 1
	default:
		return 0
	}
}

// IsStaff reports whether role may review and publish.
func IsStaff(role model.Role) bool {
	return HasRole(role, model.RoleEditor, model.RoleAdmin)
}

// CanWrite reports whether role may create articles.
func CanWrite(role model.Role) bool {
	return HasRole(role, model.RoleAuthor, model.RoleEditor, model.RoleAdmin)
}

// CanManage reports whether actor outranks target. Admins may manage other admins.
func CanManage(actor, target model.Role) bool {
	if actor == model.RoleAdmin {
		return true
	}
	return Rank(actor) > Rank(target)
}
