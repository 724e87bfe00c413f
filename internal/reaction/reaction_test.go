package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name      string
		current   model.ReactionKind
		action    model.ReactionKind
		wantNext  model.ReactionKind
		wantDelta Delta
	}{
		{"like from none", "", model.ReactionLike, model.ReactionLike, Delta{Likes: 1}},
		{"dislike from none", "", model.ReactionDislike, model.ReactionDislike, Delta{Dislikes: 1}},
		{"like again removes", model.ReactionLike, model.ReactionLike, "", Delta{Likes: -1}},
		{"dislike again removes", model.ReactionDislike, model.ReactionDislike, "", Delta{Dislikes: -1}},
		{"like to dislike", model.ReactionLike, model.ReactionDislike, model.ReactionDislike, Delta{Likes: -1, Dislikes: 1}},
		{"dislike to like", model.ReactionDislike, model.ReactionLike, model.ReactionLike, Delta{Likes: 1, Dislikes: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, delta := Toggle(tt.current, tt.action)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}

func TestParseAction(t *testing.T) {
	kind, err := ParseAction("like")
	require.NoError(t, err)
	assert.Equal(t, model.ReactionLike, kind)

	_, err = ParseAction("love")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

// entity tracks one user's reaction next to the counters, like storage does.
type entity struct {
	kind   model.ReactionKind
	counts model.ReactionCounts
}

func (e *entity) react(action model.ReactionKind) {
	next, delta := Toggle(e.kind, action)
	e.kind = next
	e.counts = Apply(e.counts, delta)
}

func TestLikeDislikeSequence(t *testing.T) {
	var c entity

	c.react(model.ReactionLike)
	assert.Equal(t, model.ReactionCounts{Likes: 1}, c.counts)

	c.react(model.ReactionDislike)
	assert.Equal(t, model.ReactionCounts{Dislikes: 1}, c.counts)

	c.react(model.ReactionLike)
	assert.Equal(t, model.ReactionCounts{Likes: 1}, c.counts)
	assert.Equal(t, model.ReactionLike, c.kind)
}

func TestDoubleToggleRestoresState(t *testing.T) {
	for _, action := range []model.ReactionKind{model.ReactionLike, model.ReactionDislike} {
		t.Run(string(action), func(t *testing.T) {
			var fresh entity
			fresh.react(action)
			fresh.react(action)
			assert.Equal(t, entity{}, fresh)

			reacted := entity{}
			reacted.react(action)
			before := reacted
			reacted.react(action)
			reacted.react(action)
			assert.Equal(t, before, reacted)
		})
	}
}
