// Package sqlite provides SQLite implementations of repository interfaces.
// It backs local development and the end-to-end tests with the same schema
// as the PostgreSQL adapter.
package sqlite

import (
	"slices"
	"strings"
)

// maxParams caps the number of bound parameters per statement. It stays well
// below SQLITE_MAX_VARIABLE_NUMBER on every supported build.
const maxParams = 500

// ArticleQueryBuilder builds WHERE clauses for article lookups.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildMatchClause matches articles whose id is in ids OR whose headline is in headlines.
// Returns empty string if both lists are empty.
func (qb *ArticleQueryBuilder) BuildMatchClause(ids, headlines []string) (clause string, args []any) {
	var conditions []string

	if len(ids) > 0 {
		conditions = append(conditions, "article_id IN ("+placeholders(len(ids))+")")
		args = appendStrings(args, ids)
	}
	if len(headlines) > 0 {
		conditions = append(conditions, "headline IN ("+placeholders(len(headlines))+")")
		args = appendStrings(args, headlines)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " OR "), args
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func appendStrings(args []any, values []string) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

// chunks splits values into slices of at most size elements.
func chunks(values []string, size int) [][]string {
	var out [][]string
	for c := range slices.Chunk(values, size) {
		out = append(out, c)
	}
	return out
}

// dedupe drops repeated values and keeps the first occurrence of each.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
