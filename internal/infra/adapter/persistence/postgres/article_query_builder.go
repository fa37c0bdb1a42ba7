// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ArticleQueryBuilder builds the WHERE clause for the article-attribute filter.
// Identifier and headline lists are OR'd so that a single query returns the
// union of both matches. Lists are bound as PostgreSQL arrays with = ANY($n).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildMatchClause returns "WHERE ..." and its arguments, or an empty clause
// when both lists are empty. tableAlias prefixes column names when non-empty.
func (qb *ArticleQueryBuilder) BuildMatchClause(ids, headlines []string, tableAlias string) (clause string, args []any) {
	col := func(name string) string {
		if tableAlias != "" {
			return tableAlias + "." + name
		}
		return name
	}

	var conditions []string
	if len(ids) > 0 {
		args = append(args, pq.Array(ids))
		conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", col("article_id"), len(args)))
	}
	if len(headlines) > 0 {
		args = append(args, pq.Array(headlines))
		conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", col("headline"), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " OR "), args
}
