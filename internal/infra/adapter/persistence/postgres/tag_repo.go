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

type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) repository.TagRepository {
	return &TagRepo{db: db}
}

func (repo *TagRepo) FindArticleIDs(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	const query = `SELECT DISTINCT article_id FROM tags WHERE tag = ANY($1)`
	defer metrics.ObserveDBQuery("find_tag_article_ids", time.Now())

	ids, err := queryStrings(ctx, db.Conn(ctx, repo.db), query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("FindArticleIDs: %w", err)
	}
	return ids, nil
}

func (repo *TagRepo) ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Tag, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	const query = `
SELECT article_id, tag, tag_value, tagged_at, tagged_by
FROM tags
WHERE article_id = ANY($1)
ORDER BY tag_id`
	defer metrics.ObserveDBQuery("list_tags", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, fmt.Errorf("ListByArticleIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []entity.Tag
	for rows.Next() {
		var (
			t     entity.Tag
			value sql.NullString
		)
		if err := rows.Scan(&t.ArticleID, &t.Name, &value, &t.TaggedAt, &t.TaggedBy); err != nil {
			return nil, fmt.Errorf("ListByArticleIDs: Scan: %w", err)
		}
		if value.Valid {
			t.Value = &value.String
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// InsertBatch writes every tag with one INSERT ... SELECT FROM unnest(...),
// so a rejected row fails the whole statement.
func (repo *TagRepo) InsertBatch(ctx context.Context, tags []entity.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	const query = `
INSERT INTO tags (article_id, tag, tag_value, tagged_at, tagged_by)
SELECT * FROM unnest($1::varchar[], $2::varchar[], $3::varchar[], $4::timestamptz[], $5::varchar[])`
	defer metrics.ObserveDBQuery("insert_tags", time.Now())

	var (
		articleIDs = make([]string, len(tags))
		names      = make([]string, len(tags))
		values     = make([]sql.NullString, len(tags))
		taggedAt   = make([]string, len(tags))
		taggedBy   = make([]string, len(tags))
	)
	for i, t := range tags {
		articleIDs[i] = t.ArticleID
		names[i] = t.Name
		if t.Value != nil {
			values[i] = sql.NullString{String: *t.Value, Valid: true}
		}
		taggedAt[i] = t.TaggedAt.UTC().Format(time.RFC3339Nano)
		taggedBy[i] = t.TaggedBy
	}

	_, err := db.Conn(ctx, repo.db).ExecContext(ctx, query,
		pq.Array(articleIDs), pq.Array(names), pq.Array(values), pq.Array(taggedAt), pq.Array(taggedBy))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("InsertBatch: %w: %v", entity.ErrUnknownArticle, err)
		}
		return fmt.Errorf("InsertBatch: %w", err)
	}
	return nil
}
