package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"newsdesk/internal/content"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/reaction"
	"newsdesk/internal/repository"
)

// DefaultCommentPageSize is the number of top-level comments per page.
const DefaultCommentPageSize = 20

// CommentPage is one page of top-level comments with their replies.
type CommentPage struct {
	Comments   []*model.Comment      `json:"comments"`
	Pagination repository.Pagination `json:"pagination"`
}

// CommentService exposes comment operations.
type CommentService interface {
	List(ctx context.Context, actor policy.Actor, articleIDOrSlug string, page, limit int) (*CommentPage, error)
	Create(ctx context.Context, actor policy.Actor, articleIDOrSlug, text string, parentID *uuid.UUID) (*model.Comment, error)
	Hide(ctx context.Context, actor policy.Actor, articleIDOrSlug string, commentID uuid.UUID) error
	React(ctx context.Context, actor policy.Actor, commentID uuid.UUID, action string) (model.ReactionCounts, error)
	Flag(ctx context.Context, actor policy.Actor, commentID uuid.UUID) error
}

type commentService struct {
	comments  repository.CommentRepository
	articles  repository.ArticleRepository
	reactions repository.ReactionRepository
	log       zerolog.Logger
}

// NewCommentService builds a CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	articles repository.ArticleRepository,
	reactions repository.ReactionRepository,
	log zerolog.Logger,
) CommentService {
	return &commentService{
		comments:  comments,
		articles:  articles,
		reactions: reactions,
		log:       log.With().Str("component", "comments").Logger(),
	}
}

// List returns visible top-level comments newest first, each with its
// visible replies oldest first.
func (s *commentService) List(ctx context.Context, actor policy.Actor, articleIDOrSlug string, page, limit int) (*CommentPage, error) {
	article, err := s.article(ctx, actor, articleIDOrSlug)
	if err != nil {
		return nil, err
	}
	page, limit = repository.NormalizePage(page, limit, DefaultCommentPageSize)

	top, total, err := s.comments.ListTopLevel(ctx, article.ID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if top == nil {
		top = []*model.Comment{}
	}

	if len(top) > 0 {
		ids := make([]uuid.UUID, 0, len(top))
		for _, c := range top {
			ids = append(ids, c.ID)
		}
		replies, err := s.comments.RepliesByParentIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list replies: %w", err)
		}
		for _, c := range top {
			c.Replies = replies[c.ID]
			if c.Replies == nil {
				c.Replies = []*model.Comment{}
			}
		}
	}

	return &CommentPage{Comments: top, Pagination: repository.NewPagination(page, limit, total)}, nil
}

// Create adds a comment to a published article. A reply to a reply is
// attached to the top-level comment.
func (s *commentService) Create(ctx context.Context, actor policy.Actor, articleIDOrSlug, text string, parentID *uuid.UUID) (*model.Comment, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	text = content.PlainText(text)
	if text == "" {
		return nil, errors.Invalid("comment text is required")
	}
	if utf8.RuneCountInString(text) > model.MaxCommentLength {
		return nil, errors.Invalid(fmt.Sprintf("comment must be at most %d characters", model.MaxCommentLength))
	}

	article, err := s.article(ctx, actor, articleIDOrSlug)
	if err != nil {
		return nil, err
	}
	if article.Status != model.StatusPublished {
		return nil, errors.ErrNotPublished
	}

	comment := &model.Comment{
		ArticleID: article.ID,
		UserID:    actor.UserID,
		Text:      text,
	}
	if parentID != nil {
		parent, err := s.visibleComment(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != article.ID {
			return nil, errors.ErrCommentNotFound
		}
		root := parent.ID
		if parent.ParentID != nil {
			root = *parent.ParentID
		}
		comment.ParentID = &root
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Hide soft-deletes a comment of the given article.
func (s *commentService) Hide(ctx context.Context, actor policy.Actor, articleIDOrSlug string, commentID uuid.UUID) error {
	if !actor.Authenticated() {
		return errors.ErrNotAuthenticated
	}
	article, err := s.article(ctx, actor, articleIDOrSlug)
	if err != nil {
		return err
	}
	comment, err := s.visibleComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return errors.ErrCommentNotFound
	}
	if !policy.CanHideComment(comment, actor) {
		return errors.Forbidden("not allowed to delete this comment")
	}

	reason := model.HiddenByModerator
	if comment.UserID == actor.UserID {
		reason = model.HiddenByAuthor
	}
	if err := s.comments.Hide(ctx, comment.ID, reason); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCommentNotFound
		}
		return fmt.Errorf("hide comment: %w", err)
	}
	s.log.Info().Str("comment", comment.ID.String()).Str("reason", reason).Msg("comment hidden")
	return nil
}

func (s *commentService) React(ctx context.Context, actor policy.Actor, commentID uuid.UUID, action string) (model.ReactionCounts, error) {
	if !actor.Authenticated() {
		return model.ReactionCounts{}, errors.ErrNotAuthenticated
	}
	kind, err := reaction.ParseAction(action)
	if err != nil {
		return model.ReactionCounts{}, err
	}
	comment, err := s.reachableComment(ctx, actor, commentID)
	if err != nil {
		return model.ReactionCounts{}, err
	}
	counts, err := s.reactions.React(ctx, model.TargetComment, comment.ID, actor.UserID, kind)
	if err == gorm.ErrRecordNotFound {
		return model.ReactionCounts{}, errors.ErrCommentNotFound
	}
	if err != nil {
		return model.ReactionCounts{}, fmt.Errorf("react to comment: %w", err)
	}
	return counts, nil
}

// Flag marks a comment for moderator attention.
func (s *commentService) Flag(ctx context.Context, actor policy.Actor, commentID uuid.UUID) error {
	if !actor.Authenticated() {
		return errors.ErrNotAuthenticated
	}
	comment, err := s.reachableComment(ctx, actor, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Flag(ctx, comment.ID); err != nil {
		return fmt.Errorf("flag comment: %w", err)
	}
	s.log.Info().Str("comment", comment.ID.String()).Str("actor", actor.UserID.String()).Msg("comment flagged")
	return nil
}

func (s *commentService) article(ctx context.Context, actor policy.Actor, idOrSlug string) (*model.Article, error) {
	article, err := findArticle(ctx, s.articles, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(article, actor) {
		return nil, errors.ErrArticleNotFound
	}
	return article, nil
}

// reachableComment loads a visible comment whose article the actor may view.
func (s *commentService) reachableComment(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.visibleComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.article(ctx, actor, comment.ArticleID.String()); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// visibleComment loads a comment, treating hidden comments as missing.
func (s *commentService) visibleComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !comment.IsVisible() {
		return nil, errors.ErrCommentNotFound
	}
	return comment, nil
}
