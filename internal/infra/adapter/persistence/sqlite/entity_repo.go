package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/infra/db"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/repository"
)

// EntityRepo implements the EntityRepository interface using SQLite.
type EntityRepo struct{ db *sql.DB }

// NewEntityRepo creates a new SQLite-backed entity repository.
func NewEntityRepo(db *sql.DB) repository.EntityRepository {
	return &EntityRepo{db: db}
}

func (repo *EntityRepo) FindArticleIDs(ctx context.Context, kind string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("find_entity_article_ids", time.Now())
	q := db.Conn(ctx, repo.db)

	var found []string
	for _, c := range chunks(values, maxParams) {
		query := fmt.Sprintf(`
SELECT DISTINCT article_id
FROM entities
WHERE entity = ? AND entity_value IN (%s)
`, placeholders(len(c)))
		args := appendStrings([]any{kind}, c)

		part, err := queryStrings(ctx, q, query, args...)
		if err != nil {
			return nil, fmt.Errorf("FindArticleIDs(%s): %w", kind, err)
		}
		found = append(found, part...)
	}
	return dedupe(found), nil
}

func (repo *EntityRepo) ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Annotation, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("list_entities", time.Now())
	q := db.Conn(ctx, repo.db)

	type row struct {
		seq int64
		entity.Annotation
	}
	var collected []row
	for _, c := range chunks(articleIDs, maxParams) {
		query := fmt.Sprintf(`
SELECT entity_id, article_id, entity, entity_value
FROM entities
WHERE article_id IN (%s)
ORDER BY entity_id
`, placeholders(len(c)))

		rows, err := q.QueryContext(ctx, query, appendStrings(nil, c)...)
		if err != nil {
			return nil, fmt.Errorf("ListByArticleIDs: QueryContext: %w", err)
		}
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.seq, &r.ArticleID, &r.Kind, &r.Value); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("ListByArticleIDs: Scan: %w", err)
			}
			collected = append(collected, r)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("ListByArticleIDs: rows.Err: %w", err)
		}
	}

	slices.SortStableFunc(collected, func(a, b row) int { return cmp.Compare(a.seq, b.seq) })
	annotations := make([]entity.Annotation, len(collected))
	for i, r := range collected {
		annotations[i] = r.Annotation
	}
	return annotations, nil
}
