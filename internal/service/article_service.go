package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"newsdesk/internal/content"
	"newsdesk/internal/errors"
	"newsdesk/internal/events"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/reaction"
	"newsdesk/internal/repository"
)

const (
	maxTitleLength = 200
	// feed defaults
	defaultFeedSize = 6
	maxFeedSize     = 20
	feedCandidates  = 50
	// scheduledBatch bounds one scheduler run.
	scheduledBatch = 50
)

// ArticleInput carries the fields of a new article.
type ArticleInput struct {
	Title       string
	Content     string
	Excerpt     string
	BannerImage string
	Category    string
	Tags        []string
	Status      model.ArticleStatus
	IsBreaking  bool
	ScheduledAt *time.Time
}

// ArticleUpdate carries a partial article update. Nil fields are left unchanged.
type ArticleUpdate struct {
	Title       *string
	Content     *string
	Excerpt     *string
	BannerImage *string
	Category    *string
	Tags        []string
	IsBreaking  *bool
	ScheduledAt *time.Time
	Status      *model.ArticleStatus
}

func (u ArticleUpdate) changesContent() bool {
	return u.Title != nil || u.Content != nil || u.Excerpt != nil || u.BannerImage != nil ||
		u.Category != nil || u.Tags != nil || u.IsBreaking != nil || u.ScheduledAt != nil
}

// ArticleQuery is a list request.
type ArticleQuery struct {
	Status   model.ArticleStatus
	Category string
	Tag      string
	Search   string
	AuthorID uuid.UUID
	Sort     string
	Page     int
	Limit    int
}

// ArticleDetail is a single article together with the caller's own state.
type ArticleDetail struct {
	*model.Article
	UserReaction model.ReactionKind `json:"userReaction,omitempty"`
	IsSaved      bool               `json:"isSaved"`
}

// ArticleService exposes article operations. Every method takes the caller
// as a policy.Actor; the zero Actor is an anonymous caller.
type ArticleService interface {
	Create(ctx context.Context, actor policy.Actor, input ArticleInput) (*model.Article, error)
	Get(ctx context.Context, actor policy.Actor, idOrSlug string) (*ArticleDetail, error)
	List(ctx context.Context, actor policy.Actor, query ArticleQuery) (*ArticlePage, error)
	Update(ctx context.Context, actor policy.Actor, idOrSlug string, update ArticleUpdate) (*model.Article, error)
	Delete(ctx context.Context, actor policy.Actor, idOrSlug string) error
	Review(ctx context.Context, actor policy.Actor, idOrSlug string, decision model.ArticleStatus, feedback string) (*model.Article, error)
	Publish(ctx context.Context, actor policy.Actor, idOrSlug string) (*model.Article, error)
	History(ctx context.Context, actor policy.Actor, idOrSlug string) ([]model.ArticleTransition, error)
	React(ctx context.Context, actor policy.Actor, idOrSlug, action string) (model.ReactionCounts, error)
	Personalized(ctx context.Context, actor policy.Actor, limit int) ([]model.Article, error)
	PublishDue(ctx context.Context) (int, error)
}

type articleService struct {
	articles  repository.ArticleRepository
	users     repository.UserRepository
	reactions repository.ReactionRepository
	bookmarks repository.BookmarkRepository
	publisher events.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewArticleService builds an ArticleService.
func NewArticleService(
	articles repository.ArticleRepository,
	users repository.UserRepository,
	reactions repository.ReactionRepository,
	bookmarks repository.BookmarkRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) ArticleService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &articleService{
		articles:  articles,
		users:     users,
		reactions: reactions,
		bookmarks: bookmarks,
		publisher: publisher,
		log:       log.With().Str("component", "articles").Logger(),
		now:       time.Now,
	}
}

func (s *articleService) Create(ctx context.Context, actor policy.Actor, input ArticleInput) (*model.Article, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	if !policy.CanWrite(actor.Role) {
		return nil, errors.Forbidden("only authors, editors and admins can create articles")
	}

	title := strings.TrimSpace(input.Title)
	body := content.SanitizeHTML(input.Content)
	if err := validateArticle(title, body, input.Category); err != nil {
		return nil, err
	}

	now := s.now()
	article := &model.Article{
		ID:          uuid.New(),
		Title:       title,
		Slug:        content.ArticleSlug(title, now),
		Content:     body,
		Excerpt:     excerptFor(input.Excerpt, body),
		BannerImage: strings.TrimSpace(input.BannerImage),
		AuthorID:    actor.UserID,
		Category:    input.Category,
		Tags:        content.NormalizeTags(input.Tags),
		Status:      policy.InitialStatus(actor, input.Status),
		IsBreaking:  input.IsBreaking,
		ScheduledAt: input.ScheduledAt,
	}
	if article.Status == model.StatusPublished {
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	s.log.Info().Str("article", article.ID.String()).Str("status", string(article.Status)).Msg("article created")

	if article.Status == model.StatusPublished {
		s.emit(ctx, article, "", actor.UserID)
	}
	return s.reload(ctx, article)
}

func (s *articleService) Get(ctx context.Context, actor policy.Actor, idOrSlug string) (*ArticleDetail, error) {
	article, err := findArticle(ctx, s.articles, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(article, actor) {
		return nil, errors.ErrArticleNotFound
	}

	detail := &ArticleDetail{Article: article}
	if article.Status == model.StatusPublished {
		if err := s.articles.IncrementViews(ctx, article.ID); err != nil {
			s.log.Warn().Err(err).Str("article", article.ID.String()).Msg("increment views")
		} else {
			article.Views++
		}
	}
	if !actor.Authenticated() {
		return detail, nil
	}

	if article.Status == model.StatusPublished {
		if err := s.bookmarks.RecordRead(ctx, actor.UserID, article.ID); err != nil {
			s.log.Warn().Err(err).Str("article", article.ID.String()).Msg("record reading history")
		}
	}
	if kind, err := s.reactions.Current(ctx, model.TargetArticle, article.ID, actor.UserID); err == nil {
		detail.UserReaction = kind
	}
	if saved, err := s.bookmarks.IsSaved(ctx, actor.UserID, article.ID); err == nil {
		detail.IsSaved = saved
	}
	return detail, nil
}

func (s *articleService) List(ctx context.Context, actor policy.Actor, query ArticleQuery) (*ArticlePage, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, errors.Invalid("unknown status")
	}
	scope, err := policy.ListScope(actor, query.Status)
	if err != nil {
		return nil, err
	}

	filter := repository.ArticleFilter{
		Status:   query.Status,
		Category: query.Category,
		Tag:      query.Tag,
		Search:   query.Search,
		AuthorID: query.AuthorID,
		Sort:     query.Sort,
		Page:     query.Page,
		Limit:    query.Limit,
	}
	page, limit := repository.NormalizePage(query.Page, query.Limit, repository.DefaultPageSize)

	switch scope {
	case policy.ScopePublished:
		filter.Status = model.StatusPublished
	case policy.ScopeOwn:
		switch {
		case query.Status == "":
			filter.PublishedOrAuthor = actor.UserID
		case query.Status == model.StatusPublished:
		case query.AuthorID != uuid.Nil && query.AuthorID != actor.UserID:
			return newArticlePage(nil, page, limit, 0), nil
		default:
			filter.AuthorID = actor.UserID
		}
	}

	articles, total, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return newArticlePage(articles, page, limit, total), nil
}

func (s *articleService) Update(ctx context.Context, actor policy.Actor, idOrSlug string, update ArticleUpdate) (*model.Article, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	article, err := s.visible(ctx, actor, idOrSlug)
	if err != nil {
		return nil, err
	}

	if update.changesContent() {
		if err := policy.CheckEdit(article, actor); err != nil {
			return nil, err
		}
		if err := applyUpdate(article, update); err != nil {
			return nil, err
		}
	}

	var change *policy.Change
	if update.Status != nil {
		change, err = policy.ChangeStatus(article, actor, *update.Status, s.now())
		if err != nil {
			return nil, err
		}
	}

	switch {
	case change != nil && update.changesContent():
		err := s.articles.WithTransaction(ctx, func(ctx context.Context, repo repository.ArticleRepository) error {
			if err := repo.Update(ctx, article); err != nil {
				return fmt.Errorf("update article: %w", err)
			}
			return repo.ApplyTransition(ctx, article, newTransition(article, change, actor.UserID))
		})
		if err != nil {
			return nil, fmt.Errorf("update article: %w", err)
		}
		s.announce(ctx, article, change, actor.UserID)
	case change != nil:
		if err := s.record(ctx, article, change, actor.UserID); err != nil {
			return nil, err
		}
	case update.changesContent():
		if err := s.articles.Update(ctx, article); err != nil {
			return nil, fmt.Errorf("update article: %w", err)
		}
	}
	return s.reload(ctx, article)
}

func (s *articleService) Delete(ctx context.Context, actor policy.Actor, idOrSlug string) error {
	if !actor.Authenticated() {
		return errors.ErrNotAuthenticated
	}
	article, err := s.visible(ctx, actor, idOrSlug)
	if err != nil {
		return err
	}
	if err := policy.CheckDelete(article, actor); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, article.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	s.log.Info().Str("article", article.ID.String()).Str("actor", actor.UserID.String()).Msg("article deleted")
	return nil
}

func (s *articleService) Review(ctx context.Context, actor policy.Actor, idOrSlug string, decision model.ArticleStatus, feedback string) (*model.Article, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	article, err := s.visible(ctx, actor, idOrSlug)
	if err != nil {
		return nil, err
	}
	change, err := policy.Review(article, actor, decision, strings.TrimSpace(feedback))
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, article, change, actor.UserID); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Publish(ctx context.Context, actor policy.Actor, idOrSlug string) (*model.Article, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	article, err := s.visible(ctx, actor, idOrSlug)
	if err != nil {
		return nil, err
	}
	change, err := policy.Publish(article, actor, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, article, change, actor.UserID); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) History(ctx context.Context, actor policy.Actor, idOrSlug string) ([]model.ArticleTransition, error) {
	article, err := findArticle(ctx, s.articles, idOrSlug)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckHistory(article, actor); err != nil {
		return nil, err
	}
	transitions, err := s.articles.ListTransitions(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	if transitions == nil {
		transitions = []model.ArticleTransition{}
	}
	return transitions, nil
}

func (s *articleService) React(ctx context.Context, actor policy.Actor, idOrSlug, action string) (model.ReactionCounts, error) {
	if !actor.Authenticated() {
		return model.ReactionCounts{}, errors.ErrNotAuthenticated
	}
	kind, err := reaction.ParseAction(action)
	if err != nil {
		return model.ReactionCounts{}, err
	}
	article, err := s.visible(ctx, actor, idOrSlug)
	if err != nil {
		return model.ReactionCounts{}, err
	}
	if article.Status != model.StatusPublished {
		return model.ReactionCounts{}, errors.ErrNotPublished
	}
	counts, err := s.reactions.React(ctx, model.TargetArticle, article.ID, actor.UserID, kind)
	if err == gorm.ErrRecordNotFound {
		return model.ReactionCounts{}, errors.ErrArticleNotFound
	}
	if err != nil {
		return model.ReactionCounts{}, fmt.Errorf("react to article: %w", err)
	}
	return counts, nil
}

// Personalized returns unread published articles ranked by the caller's
// category preferences and location. Anonymous callers get the latest articles.
func (s *articleService) Personalized(ctx context.Context, actor policy.Actor, limit int) ([]model.Article, error) {
	if limit <= 0 {
		limit = defaultFeedSize
	}
	if limit > maxFeedSize {
		limit = maxFeedSize
	}
	if !actor.Authenticated() {
		return s.articles.ListUnread(ctx, nil, limit)
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	read, err := s.bookmarks.ReadArticleIDs(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load reading history: %w", err)
	}
	candidates, err := s.articles.ListUnread(ctx, read, feedCandidates)
	if err != nil {
		return nil, fmt.Errorf("load feed candidates: %w", err)
	}

	ranked := rankFeed(candidates, user)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// rankFeed scores 10 for a preferred category and 5 for a tag matching the
// user's location. Ties keep the newest-first order of candidates.
func rankFeed(candidates []model.Article, user *model.User) []model.Article {
	preferred := make(map[string]bool, len(user.Preferences))
	for _, p := range user.Preferences {
		preferred[strings.ToLower(p)] = true
	}
	location := strings.ToLower(strings.TrimSpace(user.Location))

	score := func(a model.Article) int {
		n := 0
		if preferred[strings.ToLower(a.Category)] {
			n += 10
		}
		if location != "" {
			for _, tag := range a.Tags {
				if strings.ToLower(tag) == location {
					n += 5
					break
				}
			}
		}
		return n
	}

	ranked := make([]model.Article, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	return ranked
}

// PublishDue publishes approved articles whose scheduled time has passed.
// It runs as the system, so transitions carry no actor.
func (s *articleService) PublishDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.articles.ListDueScheduled(ctx, now, scheduledBatch)
	if err != nil {
		return 0, fmt.Errorf("list scheduled articles: %w", err)
	}

	system := policy.Actor{Role: model.RoleAdmin}
	published := 0
	for i := range due {
		article := &due[i]
		change, err := policy.Publish(article, system, now)
		if err != nil {
			return published, err
		}
		if err := s.record(ctx, article, change, uuid.Nil); err != nil {
			s.log.Error().Err(err).Str("article", article.ID.String()).Msg("scheduled publish failed")
			continue
		}
		published++
	}
	return published, nil
}

// visible loads an article and hides it from callers who may not see it.
func (s *articleService) visible(ctx context.Context, actor policy.Actor, idOrSlug string) (*model.Article, error) {
	article, err := findArticle(ctx, s.articles, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(article, actor) {
		return nil, errors.ErrArticleNotFound
	}
	return article, nil
}

// record persists a status change with its audit row and announces it.
func (s *articleService) record(ctx context.Context, article *model.Article, change *policy.Change, actor uuid.UUID) error {
	if err := s.articles.ApplyTransition(ctx, article, newTransition(article, change, actor)); err != nil {
		return fmt.Errorf("apply transition: %w", err)
	}
	s.announce(ctx, article, change, actor)
	return nil
}

func newTransition(article *model.Article, change *policy.Change, actor uuid.UUID) *model.ArticleTransition {
	return &model.ArticleTransition{
		ArticleID:  article.ID,
		ActorID:    actorID(actor),
		FromStatus: change.From,
		ToStatus:   change.To,
		Feedback:   change.Feedback,
	}
}

// announce logs a committed transition and emits its event.
func (s *articleService) announce(ctx context.Context, article *model.Article, change *policy.Change, actor uuid.UUID) {
	s.log.Info().
		Str("article", article.ID.String()).
		Str("from", string(change.From)).
		Str("to", string(change.To)).
		Msg("article status changed")
	s.emit(ctx, article, change.From, actor)
}

func (s *articleService) emit(ctx context.Context, article *model.Article, from model.ArticleStatus, actor uuid.UUID) {
	event := events.NewArticleEvent(article, from, actorID(actor), s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Debug().Err(err).Str("type", event.Type).Msg("event dropped")
	}
}

// reload fetches the article with its author and tags, falling back to the
// in-memory copy if the read fails.
func (s *articleService) reload(ctx context.Context, article *model.Article) (*model.Article, error) {
	fresh, err := s.articles.FindByID(ctx, article.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("article", article.ID.String()).Msg("reload article")
		return article, nil
	}
	return fresh, nil
}

func validateArticle(title, body, category string) error {
	switch {
	case title == "":
		return errors.Invalid("title is required")
	case len([]rune(title)) > maxTitleLength:
		return errors.Invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	case content.PlainText(body) == "" && !strings.Contains(body, "<img"):
		return errors.Invalid("content is required")
	case !model.ValidCategory(category):
		return errors.Invalid("unknown category")
	}
	return nil
}

func excerptFor(excerpt, body string) string {
	if e := content.PlainText(excerpt); e != "" {
		return content.Truncate(e, 500)
	}
	return content.Excerpt(body, content.ExcerptLength)
}

func applyUpdate(article *model.Article, update ArticleUpdate) error {
	title, body, category := article.Title, article.Content, article.Category
	if update.Title != nil {
		title = strings.TrimSpace(*update.Title)
	}
	if update.Content != nil {
		body = content.SanitizeHTML(*update.Content)
	}
	if update.Category != nil {
		category = *update.Category
	}
	if err := validateArticle(title, body, category); err != nil {
		return err
	}

	contentChanged := body != article.Content
	article.Title, article.Content, article.Category = title, body, category
	switch {
	case update.Excerpt != nil:
		article.Excerpt = excerptFor(*update.Excerpt, body)
	case contentChanged:
		article.Excerpt = content.Excerpt(body, content.ExcerptLength)
	}
	if update.BannerImage != nil {
		article.BannerImage = strings.TrimSpace(*update.BannerImage)
	}
	if update.Tags != nil {
		article.Tags = content.NormalizeTags(update.Tags)
	}
	if update.IsBreaking != nil {
		article.IsBreaking = *update.IsBreaking
	}
	if update.ScheduledAt != nil {
		article.ScheduledAt = update.ScheduledAt
	}
	return nil
}
