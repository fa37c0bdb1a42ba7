package repository

import (
	"context"

	"article-tagger/internal/domain/entity"
)

// ArticleRepository reads the articles relation.
type ArticleRepository interface {
	// ListHeadlines returns every article ordered by published_time DESC.
	ListHeadlines(ctx context.Context) ([]entity.ArticleHeadline, error)
	// FindIDs returns the identifiers of articles whose article_id is in ids
	// OR whose headline is in headlines. Either list may be empty; when both are
	// empty the result is empty.
	FindIDs(ctx context.Context, ids, headlines []string) ([]string, error)
	// ListByIDs returns the articles whose identifiers are in ids, ordered by
	// published_time in the given direction. Unknown identifiers are skipped.
	ListByIDs(ctx context.Context, ids []string, order entity.SortOrder) ([]*entity.Article, error)
}
