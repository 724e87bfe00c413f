package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsdesk/internal/model"
)

// BookmarkRepository stores saved articles and reading history.
type BookmarkRepository interface {
	Save(ctx context.Context, userID, articleID uuid.UUID) error
	Remove(ctx context.Context, userID, articleID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Article, int64, error)
	IsSaved(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
	RecordRead(ctx context.Context, userID, articleID uuid.UUID) error
	ReadArticleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Article, int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Save adds a bookmark. Saving twice is a no-op.
func (r *bookmarkRepository) Save(ctx context.Context, userID, articleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SavedArticle{UserID: userID, ArticleID: articleID}).Error
}

// Remove deletes a bookmark if present.
func (r *bookmarkRepository) Remove(ctx context.Context, userID, articleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&model.SavedArticle{}).Error
}

func (r *bookmarkRepository) IsSaved(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SavedArticle{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&n).Error
	return n > 0, err
}

// ListSaved returns the user's bookmarked published articles, newest bookmark first.
func (r *bookmarkRepository) ListSaved(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Article, int64, error) {
	return r.listJoined(ctx, "saved_articles", userID, page, limit)
}

// RecordRead adds the article to the user's reading history. Re-reading
// refreshes the timestamp.
func (r *bookmarkRepository) RecordRead(ctx context.Context, userID, articleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
		}).
		Create(&model.ReadingHistory{UserID: userID, ArticleID: articleID}).Error
}

func (r *bookmarkRepository) ReadArticleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ReadingHistory{}).
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error
	return ids, err
}

func (r *bookmarkRepository) ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Article, int64, error) {
	return r.listJoined(ctx, "reading_history", userID, page, limit)
}

func (r *bookmarkRepository) listJoined(ctx context.Context, table string, userID uuid.UUID, page, limit int) ([]model.Article, int64, error) {
	page, limit = NormalizePage(page, limit, 20)

	query := r.db.WithContext(ctx).Model(&model.Article{}).
		Joins("JOIN "+table+" j ON j.article_id = articles.id").
		Where("j.user_id = ? AND articles.status = ?", userID, model.StatusPublished).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	if err := query.Scopes(withArticleRelations).
		Select("articles.*").
		Order("j.created_at DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
