package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newsdesk/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListTopLevel(ctx context.Context, articleID uuid.UUID, page, limit int) ([]*model.Comment, int64, error)
	RepliesByParentIDs(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID][]*model.Comment, error)
	Hide(ctx context.Context, id uuid.UUID, reason string) error
	Flag(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func withCommentUser(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return err
	}
	// reload for the author summary
	return r.db.WithContext(ctx).Scopes(withCommentUser).First(comment, "id = ?", comment.ID).Error
}

// FindByID returns a comment regardless of visibility.
func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Scopes(withCommentUser).
		Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListTopLevel returns visible top-level comments of an article, newest first.
func (r *commentRepository) ListTopLevel(ctx context.Context, articleID uuid.UUID, page, limit int) ([]*model.Comment, int64, error) {
	page, limit = NormalizePage(page, limit, 20)

	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ? AND parent_id IS NULL AND visibility = ?", articleID, model.VisibilityVisible).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	if err := query.Scopes(withCommentUser).
		Order("created_at DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// RepliesByParentIDs loads the visible replies of many comments in one query,
// oldest first within each parent.
func (r *commentRepository) RepliesByParentIDs(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID][]*model.Comment, error) {
	result := make(map[uuid.UUID][]*model.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var comments []*model.Comment
	err := r.db.WithContext(ctx).Scopes(withCommentUser).
		Where("parent_id IN ? AND visibility = ?", parentIDs, model.VisibilityVisible).
		Order("parent_id, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		if c.ParentID != nil {
			result[*c.ParentID] = append(result[*c.ParentID], c)
		}
	}
	return result, nil
}

// Hide soft-deletes a comment with the given reason.
func (r *commentRepository) Hide(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"visibility":    model.VisibilityHidden,
			"hidden_reason": reason,
		}).Error
}

// Flag marks a comment for moderator attention.
func (r *commentRepository) Flag(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("is_flagged", true).Error
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("visibility = ?", model.VisibilityVisible).
		Count(&n).Error
	return n, err
}
