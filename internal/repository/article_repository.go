package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newsdesk/internal/model"
)

// Sort keys accepted by List.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortViews    = "views"
	SortTrending = "trending"
)

// ArticleFilter narrows an article listing. Visibility is expressed with
// PublishedOrAuthor: when set, only published articles and that user's own
// articles match.
type ArticleFilter struct {
	Status            model.ArticleStatus
	Category          string
	Tag               string
	Search            string
	AuthorID          uuid.UUID
	PublishedOrAuthor uuid.UUID
	Sort              string
	Page              int
	Limit             int
}

// CategoryCount is the number of published articles in a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusCount is the number of articles in a status.
type StatusCount struct {
	Status model.ArticleStatus `json:"status"`
	Count  int64               `json:"count"`
}

// AuthorTotals aggregates an author's articles.
type AuthorTotals struct {
	Published int64 `json:"totalArticles"`
	Views     int64 `json:"totalViews"`
	Likes     int64 `json:"totalLikes"`
	Comments  int64 `json:"totalComments"`
}

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ApplyTransition(ctx context.Context, article *model.Article, transition *model.ArticleTransition) error
	ListTransitions(ctx context.Context, articleID uuid.UUID) ([]model.ArticleTransition, error)
	ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]model.Article, error)
	ListUnread(ctx context.Context, exclude []uuid.UUID, limit int) ([]model.Article, error)
	// Stats
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountPublishedByCategory(ctx context.Context) ([]CategoryCount, error)
	TotalViews(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]model.Article, error)
	Top(ctx context.Context, limit int) ([]model.Article, error)
	AuthorTotals(ctx context.Context, authorID uuid.UUID) (*AuthorTotals, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, status model.ArticleStatus, limit int) ([]model.Article, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ArticleRepository) error) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// withArticleRelations preloads the author summary and tags. Soft-deleted
// authors are still shown.
func withArticleRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("TagRecords")
}

// Create creates an article together with its tags.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	article.TagRecords = model.TagRecords(article.ID, article.Tags)
	return r.db.WithContext(ctx).Omit("Author").Create(article).Error
}

// WithTransaction runs fn against a repository bound to one transaction.
func (r *articleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ArticleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &articleRepository{db: tx})
	})
}

// Update saves the editable columns and replaces the tag set. Lifecycle
// columns are only written by ApplyTransition.
func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(article).
			Select("title", "content", "excerpt", "banner_image", "category", "is_breaking",
				"scheduled_at", "updated_at").
			Updates(article).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		records := model.TagRecords(article.ID, article.Tags)
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).Scopes(withArticleRelations).
		Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).Scopes(withArticleRelations).
		Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns one page of articles matching filter and the total match count.
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error) {
	page, limit := NormalizePage(filter.Page, filter.Limit, DefaultPageSize)

	query := r.db.WithContext(ctx).Model(&model.Article{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PublishedOrAuthor != uuid.Nil {
		query = query.Where("(status = ? OR author_id = ?)", model.StatusPublished, filter.PublishedOrAuthor)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		tagged := r.db.Model(&model.ArticleTag{}).Select("article_id").Where("LOWER(tag) = ?", strings.ToLower(tag))
		query = query.Where("id IN (?)", tagged)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?)", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	if err := query.Scopes(withArticleRelations).
		Order(orderFor(filter.Sort)).
		Offset(offset(page, limit)).Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func orderFor(sort string) string {
	switch sort {
	case SortOldest:
		return "COALESCE(published_at, created_at) ASC, id ASC"
	case SortViews:
		return "views DESC, id DESC"
	case SortTrending:
		return "(likes_count + views) DESC, id DESC"
	default:
		return "COALESCE(published_at, created_at) DESC, id DESC"
	}
}

// Delete removes an article and everything hanging off it.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("article_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", model.TargetComment, commentIDs).
			Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetArticle, id).
			Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&model.Comment{}, &model.ArticleTag{}, &model.SavedArticle{},
			&model.ReadingHistory{}, &model.ArticleTransition{},
		} {
			if err := tx.Where("article_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&model.Article{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *articleRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// ApplyTransition writes the article's lifecycle columns and the audit row
// in one transaction.
func (r *articleRepository) ApplyTransition(ctx context.Context, article *model.Article, transition *model.ArticleTransition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Article{}).Where("id = ?", article.ID).
			Updates(map[string]interface{}{
				"status":          article.Status,
				"editor_feedback": article.EditorFeedback,
				"published_at":    article.PublishedAt,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Create(transition).Error
	})
}

func (r *articleRepository) ListTransitions(ctx context.Context, articleID uuid.UUID) ([]model.ArticleTransition, error) {
	var transitions []model.ArticleTransition
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&transitions).Error
	return transitions, err
}

// ListDueScheduled returns approved articles whose scheduled time has passed.
func (r *articleRepository) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", model.StatusApproved, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// ListUnread returns recent published articles not in exclude.
func (r *articleRepository) ListUnread(ctx context.Context, exclude []uuid.UUID, limit int) ([]model.Article, error) {
	query := r.db.WithContext(ctx).Scopes(withArticleRelations).
		Where("status = ?", model.StatusPublished)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	var articles []model.Article
	err := query.Order("published_at DESC").Limit(limit).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *articleRepository) CountPublishedByCategory(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", model.StatusPublished).
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *articleRepository) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, err
}

func (r *articleRepository) Recent(ctx context.Context, limit int) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.WithContext(ctx).Scopes(withArticleRelations).
		Order("created_at DESC").Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Top(ctx context.Context, limit int) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.WithContext(ctx).Scopes(withArticleRelations).
		Where("status = ?", model.StatusPublished).
		Order("views DESC").Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) AuthorTotals(ctx context.Context, authorID uuid.UUID) (*AuthorTotals, error) {
	totals := &AuthorTotals{}
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS published, "+
			"COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes_count), 0) AS likes", model.StatusPublished).
		Where("author_id = ?", authorID).
		Scan(totals).Error
	if err != nil {
		return nil, err
	}

	own := r.db.Model(&model.Article{}).Select("id").Where("author_id = ?", authorID)
	err = r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id IN (?) AND visibility = ?", own, model.VisibilityVisible).
		Count(&totals.Comments).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, status model.ArticleStatus, limit int) ([]model.Article, error) {
	query := r.db.WithContext(ctx).Scopes(withArticleRelations).Where("author_id = ?", authorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var articles []model.Article
	err := query.Order("updated_at DESC").Limit(limit).Find(&articles).Error
	return articles, err
}
