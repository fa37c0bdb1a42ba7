package repository

import (
	"context"

	"article-tagger/internal/domain/entity"
)

// TagRepository reads and appends to the tags relation. Tags are never updated or deleted.
type TagRepository interface {
	// FindArticleIDs returns the distinct article identifiers having at least one
	// tag whose name is in names.
	FindArticleIDs(ctx context.Context, names []string) ([]string, error)
	// ListByArticleIDs returns every tag attached to the given articles in one
	// batch, in insertion order.
	ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Tag, error)
	// InsertBatch appends all tags. Callers run it inside a transaction so that a
	// rejected row aborts the whole batch. A foreign-key rejection is reported as
	// entity.ErrUnknownArticle.
	InsertBatch(ctx context.Context, tags []entity.Tag) error
}
