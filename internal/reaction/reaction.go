// Package reaction implements the like/dislike toggle shared by articles and
// comments. Storage applies the returned decision atomically.
package reaction

import (
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// Delta is the change to apply to an entity's like and dislike counters.
type Delta struct {
	Likes    int64
	Dislikes int64
}

// ParseAction validates a client supplied action.
func ParseAction(action string) (model.ReactionKind, error) {
	switch model.ReactionKind(action) {
	case model.ReactionLike:
		return model.ReactionLike, nil
	case model.ReactionDislike:
		return model.ReactionDislike, nil
	default:
		return "", errors.Invalid("action must be like or dislike")
	}
}

// Toggle decides the user's next reaction given the current one ("" when
// the user has none). Repeating the current reaction removes it; choosing
// the other one replaces it.
func Toggle(current, action model.ReactionKind) (next model.ReactionKind, delta Delta) {
	if current == action {
		return "", delta.add(current, -1)
	}
	delta = delta.add(current, -1)
	return action, delta.add(action, 1)
}

// Apply returns counts with delta added.
func Apply(counts model.ReactionCounts, delta Delta) model.ReactionCounts {
	return model.ReactionCounts{
		Likes:    counts.Likes + delta.Likes,
		Dislikes: counts.Dislikes + delta.Dislikes,
	}
}

func (d Delta) add(kind model.ReactionKind, n int64) Delta {
	switch kind {
	case model.ReactionLike:
		d.Likes += n
	case model.ReactionDislike:
		d.Dislikes += n
	}
	return d
}
