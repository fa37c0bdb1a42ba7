package repository

import (
	"context"

	"article-tagger/internal/domain/entity"
)

// EntityRepository reads the entities relation.
type EntityRepository interface {
	// FindArticleIDs returns the distinct article identifiers having at least one
	// annotation of the given kind whose value is in values.
	FindArticleIDs(ctx context.Context, kind string, values []string) ([]string, error)
	// ListByArticleIDs returns every annotation attached to the given articles
	// in one batch, in insertion order.
	ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Annotation, error)
}
