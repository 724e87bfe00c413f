package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

func TestListScope(t *testing.T) {
	tests := []struct {
		name      string
		actor     Actor
		status    model.ArticleStatus
		wantScope Scope
		wantErr   error
	}{
		{"anonymous", Actor{}, "", ScopePublished, nil},
		{"anonymous published", Actor{}, model.StatusPublished, ScopePublished, nil},
		{"anonymous drafts", Actor{}, model.StatusDraft, ScopePublished, errors.ErrForbidden},
		{"reader drafts", Actor{UserID: uuid.New(), Role: model.RoleReader}, model.StatusDraft, ScopePublished, errors.ErrForbidden},
		{"author", Actor{UserID: uuid.New(), Role: model.RoleAuthor}, model.StatusDraft, ScopeOwn, nil},
		{"editor", Actor{UserID: uuid.New(), Role: model.RoleEditor}, model.StatusPending, ScopeAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ListScope(tt.actor, tt.status)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScope, scope)
		})
	}
}

func TestCanView(t *testing.T) {
	ownerID := uuid.New()
	draft := newArticle(ownerID, model.StatusDraft)

	assert.False(t, CanView(draft, Actor{}))
	assert.False(t, CanView(draft, Actor{UserID: uuid.New(), Role: model.RoleAuthor}))
	assert.True(t, CanView(draft, Actor{UserID: ownerID, Role: model.RoleAuthor}))
	assert.True(t, CanView(draft, Actor{UserID: uuid.New(), Role: model.RoleAdmin}))
	assert.True(t, CanView(newArticle(ownerID, model.StatusPublished), Actor{}))
}

func TestCanHideComment(t *testing.T) {
	userID := uuid.New()
	comment := &model.Comment{UserID: userID}

	assert.True(t, CanHideComment(comment, Actor{UserID: userID, Role: model.RoleReader}))
	assert.True(t, CanHideComment(comment, Actor{UserID: uuid.New(), Role: model.RoleEditor}))
	assert.False(t, CanHideComment(comment, Actor{UserID: uuid.New(), Role: model.RoleAuthor}))
	assert.False(t, CanHideComment(comment, Actor{}))
}
