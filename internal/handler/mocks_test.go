package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"newsdesk/internal/auth"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, source string) (*service.Session, error) {
	args := m.Called(ctx, email, password, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockArticleService is a mock implementation of service.ArticleService.
type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) Create(ctx context.Context, actor policy.Actor, input service.ArticleInput) (*model.Article, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleService) Get(ctx context.Context, actor policy.Actor, idOrSlug string) (*service.ArticleDetail, error) {
	args := m.Called(ctx, actor, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArticleDetail), args.Error(1)
}

func (m *MockArticleService) List(ctx context.Context, actor policy.Actor, query service.ArticleQuery) (*service.ArticlePage, error) {
	args := m.Called(ctx, actor, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArticlePage), args.Error(1)
}

func (m *MockArticleService) Update(ctx context.Context, actor policy.Actor, idOrSlug string, update service.ArticleUpdate) (*model.Article, error) {
	args := m.Called(ctx, actor, idOrSlug, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleService) Delete(ctx context.Context, actor policy.Actor, idOrSlug string) error {
	args := m.Called(ctx, actor, idOrSlug)
	return args.Error(0)
}

func (m *MockArticleService) Review(ctx context.Context, actor policy.Actor, idOrSlug string, decision model.ArticleStatus, feedback string) (*model.Article, error) {
	args := m.Called(ctx, actor, idOrSlug, decision, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleService) Publish(ctx context.Context, actor policy.Actor, idOrSlug string) (*model.Article, error) {
	args := m.Called(ctx, actor, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleService) History(ctx context.Context, actor policy.Actor, idOrSlug string) ([]model.ArticleTransition, error) {
	args := m.Called(ctx, actor, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ArticleTransition), args.Error(1)
}

func (m *MockArticleService) React(ctx context.Context, actor policy.Actor, idOrSlug, action string) (model.ReactionCounts, error) {
	args := m.Called(ctx, actor, idOrSlug, action)
	return args.Get(0).(model.ReactionCounts), args.Error(1)
}

func (m *MockArticleService) Personalized(ctx context.Context, actor policy.Actor, limit int) ([]model.Article, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Article), args.Error(1)
}

func (m *MockArticleService) PublishDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCommentService is a mock implementation of service.CommentService.
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, actor policy.Actor, articleIDOrSlug string, page, limit int) (*service.CommentPage, error) {
	args := m.Called(ctx, actor, articleIDOrSlug, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentPage), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, actor policy.Actor, articleIDOrSlug, text string, parentID *uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, actor, articleIDOrSlug, text, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) Hide(ctx context.Context, actor policy.Actor, articleIDOrSlug string, commentID uuid.UUID) error {
	args := m.Called(ctx, actor, articleIDOrSlug, commentID)
	return args.Error(0)
}

func (m *MockCommentService) React(ctx context.Context, actor policy.Actor, commentID uuid.UUID, action string) (model.ReactionCounts, error) {
	args := m.Called(ctx, actor, commentID, action)
	return args.Get(0).(model.ReactionCounts), args.Error(1)
}

func (m *MockCommentService) Flag(ctx context.Context, actor policy.Actor, commentID uuid.UUID) error {
	args := m.Called(ctx, actor, commentID)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update service.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListBookmarks(ctx context.Context, userID uuid.UUID, page, limit int) (*service.ArticlePage, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArticlePage), args.Error(1)
}

func (m *MockUserService) UpdateBookmark(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, action string) (bool, error) {
	args := m.Called(ctx, userID, articleID, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) ListHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*service.ArticlePage, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArticlePage), args.Error(1)
}

// MockAdminService is a mock implementation of service.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListUsers(ctx context.Context, actor policy.Actor, filter repository.UserFilter) (*service.UserPage, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

func (m *MockAdminService) GetUser(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAdminService) UpdateUser(ctx context.Context, actor policy.Actor, id uuid.UUID, update service.AdminUserUpdate) (*model.User, error) {
	args := m.Called(ctx, actor, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAdminService) UpdateRole(ctx context.Context, actor policy.Actor, id uuid.UUID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, actor, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) AdminStats(ctx context.Context, actor policy.Actor) (*service.AdminStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminStats), args.Error(1)
}

func (m *MockStatsService) AuthorStats(ctx context.Context, actor policy.Actor) (*service.AuthorStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorStats), args.Error(1)
}
