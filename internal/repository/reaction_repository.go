package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsdesk/internal/model"
	"newsdesk/internal/reaction"
)

// ReactionRepository persists likes and dislikes on articles and comments.
type ReactionRepository interface {
	React(ctx context.Context, target model.TargetType, targetID, userID uuid.UUID, action model.ReactionKind) (model.ReactionCounts, error)
	Current(ctx context.Context, target model.TargetType, targetID, userID uuid.UUID) (model.ReactionKind, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// counters is the shape shared by the articles and comments counter columns.
type counters struct {
	LikesCount    int64
	DislikesCount int64
}

func targetModel(target model.TargetType) (interface{}, error) {
	switch target {
	case model.TargetArticle:
		return &model.Article{}, nil
	case model.TargetComment:
		return &model.Comment{}, nil
	default:
		return nil, fmt.Errorf("unknown reaction target %q", target)
	}
}

// React toggles the user's reaction and returns the new counts. The target
// row is locked for the duration so concurrent reactions serialize on it;
// the counters move by delta in the same transaction as the reaction row.
func (r *reactionRepository) React(ctx context.Context, target model.TargetType, targetID, userID uuid.UUID, action model.ReactionKind) (model.ReactionCounts, error) {
	var counts model.ReactionCounts

	m, err := targetModel(target)
	if err != nil {
		return counts, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current counters
		if err := tx.Model(m).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("likes_count, dislikes_count").
			Where("id = ?", targetID).
			Take(&current).Error; err != nil {
			return err
		}

		var existing model.Reaction
		err := tx.Where("target_type = ? AND target_id = ? AND user_id = ?", target, targetID, userID).
			Take(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		found := err == nil

		next, delta := reaction.Toggle(existing.Kind, action)
		switch {
		case next == "":
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case found:
			if err := tx.Model(&existing).Update("kind", next).Error; err != nil {
				return err
			}
		default:
			row := &model.Reaction{TargetType: target, TargetID: targetID, UserID: userID, Kind: next}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(m).Where("id = ?", targetID).UpdateColumns(map[string]interface{}{
			"likes_count":    gorm.Expr("likes_count + ?", delta.Likes),
			"dislikes_count": gorm.Expr("dislikes_count + ?", delta.Dislikes),
		}).Error; err != nil {
			return err
		}

		counts = reaction.Apply(model.ReactionCounts{Likes: current.LikesCount, Dislikes: current.DislikesCount}, delta)
		return nil
	})
	return counts, err
}

// Current returns the user's reaction on a target, or "" when there is none.
func (r *reactionRepository) Current(ctx context.Context, target model.TargetType, targetID, userID uuid.UUID) (model.ReactionKind, error) {
	var existing model.Reaction
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND user_id = ?", target, targetID, userID).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return existing.Kind, nil
}
