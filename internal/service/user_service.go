package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newsdesk/internal/cache"
	"newsdesk/internal/content"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Bookmark actions.
const (
	BookmarkSave   = "save"
	BookmarkRemove = "remove"
)

// ProfileUpdate carries a partial profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Avatar      *string
	Bio         *string
	Location    *string
	Preferences []string
}

// UserService exposes the signed-in user's own profile, bookmarks and history.
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
	ListBookmarks(ctx context.Context, userID uuid.UUID, page, limit int) (*ArticlePage, error)
	UpdateBookmark(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, action string) (bool, error)
	ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*ArticlePage, error)
}

type userService struct {
	repo      repository.UserRepository
	articles  repository.ArticleRepository
	bookmarks repository.BookmarkRepository
	cache     *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(
	repo repository.UserRepository,
	articles repository.ArticleRepository,
	bookmarks repository.BookmarkRepository,
	cache *cache.Client,
) UserService {
	return &userService{repo: repo, articles: articles, bookmarks: bookmarks, cache: cache}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, userCacheKey(userID), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(content.PlainText(*update.Name))
		if name == "" {
			return nil, errors.Invalid("name is required")
		}
		user.Name = content.Truncate(name, 100)
	}
	if update.Avatar != nil {
		user.Avatar = strings.TrimSpace(*update.Avatar)
	}
	if update.Bio != nil {
		user.Bio = content.Truncate(content.PlainText(*update.Bio), 500)
	}
	if update.Location != nil {
		user.Location = content.Truncate(content.PlainText(*update.Location), 100)
	}
	if update.Preferences != nil {
		prefs := make([]string, 0, len(update.Preferences))
		seen := make(map[string]bool, len(update.Preferences))
		for _, p := range update.Preferences {
			if !model.ValidCategory(p) {
				return nil, errors.Invalid(fmt.Sprintf("unknown category %q", p))
			}
			if !seen[p] {
				seen[p] = true
				prefs = append(prefs, p)
			}
		}
		user.Preferences = prefs
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return user, nil
}

func (s *userService) ListBookmarks(ctx context.Context, userID uuid.UUID, page, limit int) (*ArticlePage, error) {
	page, limit = repository.NormalizePage(page, limit, repository.DefaultPageSize)
	articles, total, err := s.bookmarks.ListSaved(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return newArticlePage(articles, page, limit, total), nil
}

// UpdateBookmark saves or removes an article and reports whether it is
// saved afterwards. Only published articles can be saved.
func (s *userService) UpdateBookmark(ctx context.Context, userID, articleID uuid.UUID, action string) (bool, error) {
	switch action {
	case BookmarkSave:
		article, err := s.articles.FindByID(ctx, articleID)
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrArticleNotFound
		}
		if err != nil {
			return false, err
		}
		if article.Status != model.StatusPublished {
			return false, errors.ErrArticleNotFound
		}
		if err := s.bookmarks.Save(ctx, userID, articleID); err != nil {
			return false, fmt.Errorf("save bookmark: %w", err)
		}
		return true, nil
	case BookmarkRemove:
		if err := s.bookmarks.Remove(ctx, userID, articleID); err != nil {
			return false, fmt.Errorf("remove bookmark: %w", err)
		}
		return false, nil
	default:
		return false, errors.Invalid("action must be save or remove")
	}
}

func (s *userService) ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*ArticlePage, error) {
	page, limit = repository.NormalizePage(page, limit, repository.DefaultPageSize)
	articles, total, err := s.bookmarks.ListHistory(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list reading history: %w", err)
	}
	return newArticlePage(articles, page, limit, total), nil
}
