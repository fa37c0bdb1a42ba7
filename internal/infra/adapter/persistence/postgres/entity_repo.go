package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/infra/db"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/repository"
)

type EntityRepo struct {
	db *sql.DB
}

func NewEntityRepo(db *sql.DB) repository.EntityRepository {
	return &EntityRepo{db: db}
}

func (repo *EntityRepo) FindArticleIDs(ctx context.Context, kind string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	const query = `
SELECT DISTINCT article_id
FROM entities
WHERE entity = $1 AND entity_value = ANY($2)`
	defer metrics.ObserveDBQuery("find_entity_article_ids", time.Now())

	ids, err := queryStrings(ctx, db.Conn(ctx, repo.db), query, kind, pq.Array(values))
	if err != nil {
		return nil, fmt.Errorf("FindArticleIDs(%s): %w", kind, err)
	}
	return ids, nil
}

func (repo *EntityRepo) ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Annotation, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	const query = `
SELECT article_id, entity, entity_value
FROM entities
WHERE article_id = ANY($1)
ORDER BY entity_id`
	defer metrics.ObserveDBQuery("list_entities", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, fmt.Errorf("ListByArticleIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var annotations []entity.Annotation
	for rows.Next() {
		var a entity.Annotation
		if err := rows.Scan(&a.ArticleID, &a.Kind, &a.Value); err != nil {
			return nil, fmt.Errorf("ListByArticleIDs: Scan: %w", err)
		}
		annotations = append(annotations, a)
	}
	return annotations, rows.Err()
}
