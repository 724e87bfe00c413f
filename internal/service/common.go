package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

// ArticlePage is one page of an article listing.
type ArticlePage struct {
	Articles   []model.Article       `json:"articles"`
	Pagination repository.Pagination `json:"pagination"`
}

func newArticlePage(articles []model.Article, page, limit int, total int64) *ArticlePage {
	if articles == nil {
		articles = []model.Article{}
	}
	return &ArticlePage{Articles: articles, Pagination: repository.NewPagination(page, limit, total)}
}

// findArticle resolves an article by id, falling back to slug when the
// identifier is not a UUID.
func findArticle(ctx context.Context, repo repository.ArticleRepository, idOrSlug string) (*model.Article, error) {
	var (
		article *model.Article
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		article, err = repo.FindByID(ctx, id)
	} else {
		article, err = repo.FindBySlug(ctx, idOrSlug)
	}
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func actorID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
