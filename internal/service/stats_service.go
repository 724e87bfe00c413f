package service

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/repository"
)

const (
	adminStatsCacheKey = "stats:admin"
	statsListSize      = 5
)

// Totals is the headline block of the admin dashboard.
type Totals struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalArticles     int64 `json:"totalArticles"`
	PublishedArticles int64 `json:"publishedArticles"`
	PendingArticles   int64 `json:"pendingArticles"`
	TotalComments     int64 `json:"totalComments"`
	TotalViews        int64 `json:"totalViews"`
}

// AdminStats is the editor/admin dashboard.
type AdminStats struct {
	Stats              Totals                     `json:"stats"`
	UsersByRole        map[model.Role]int64       `json:"usersByRole"`
	ArticlesByCategory []repository.CategoryCount `json:"articlesByCategory"`
	RecentArticles     []model.Article            `json:"recentArticles"`
	TopArticles        []model.Article            `json:"topArticles"`
}

// AuthorStats is an author's own dashboard.
type AuthorStats struct {
	repository.AuthorTotals
	RecentArticles []model.Article `json:"recentArticles"`
	Drafts         []model.Article `json:"drafts"`
}

// StatsService builds dashboards.
type StatsService interface {
	AdminStats(ctx context.Context, actor policy.Actor) (*AdminStats, error)
	AuthorStats(ctx context.Context, actor policy.Actor) (*AuthorStats, error)
}

type statsService struct {
	users    repository.UserRepository
	articles repository.ArticleRepository
	comments repository.CommentRepository
	cache    *cache.Client
	ttl      time.Duration
}

// NewStatsService builds a StatsService. Admin stats are cached for ttl.
func NewStatsService(
	users repository.UserRepository,
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	cache *cache.Client,
	ttl time.Duration,
) StatsService {
	return &statsService{users: users, articles: articles, comments: comments, cache: cache, ttl: ttl}
}

func (s *statsService) AdminStats(ctx context.Context, actor policy.Actor) (*AdminStats, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	if !actor.IsStaff() {
		return nil, errors.ErrUnauthorized
	}

	var cached AdminStats
	if s.cache.GetJSON(ctx, adminStatsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.buildAdminStats(ctx)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		_ = s.cache.SetJSON(ctx, adminStatsCacheKey, stats, s.ttl)
	}
	return stats, nil
}

func (s *statsService) buildAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{UsersByRole: make(map[model.Role]int64)}
	var err error

	if stats.Stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	for _, rc := range roles {
		stats.UsersByRole[rc.Role] = rc.Count
	}

	statuses, err := s.articles.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	for _, sc := range statuses {
		stats.Stats.TotalArticles += sc.Count
		switch sc.Status {
		case model.StatusPublished:
			stats.Stats.PublishedArticles = sc.Count
		case model.StatusPending:
			stats.Stats.PendingArticles = sc.Count
		}
	}

	if stats.Stats.TotalComments, err = s.comments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if stats.Stats.TotalViews, err = s.articles.TotalViews(ctx); err != nil {
		return nil, fmt.Errorf("sum views: %w", err)
	}
	if stats.ArticlesByCategory, err = s.articles.CountPublishedByCategory(ctx); err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	if stats.RecentArticles, err = s.articles.Recent(ctx, statsListSize); err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}
	if stats.TopArticles, err = s.articles.Top(ctx, statsListSize); err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	return stats, nil
}

func (s *statsService) AuthorStats(ctx context.Context, actor policy.Actor) (*AuthorStats, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	if !policy.CanWrite(actor.Role) {
		return nil, errors.ErrUnauthorized
	}

	totals, err := s.articles.AuthorTotals(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("author totals: %w", err)
	}
	recent, err := s.articles.ListByAuthor(ctx, actor.UserID, model.StatusPublished, statsListSize)
	if err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}
	drafts, err := s.articles.ListByAuthor(ctx, actor.UserID, model.StatusDraft, statsListSize)
	if err != nil {
		return nil, fmt.Errorf("drafts: %w", err)
	}
	return &AuthorStats{AuthorTotals: *totals, RecentArticles: recent, Drafts: drafts}, nil
}
