package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/infra/db"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/repository"
)

// insertChunkRows bounds a multi-row INSERT to maxParams bound values (five per row).
const insertChunkRows = maxParams / 5

// TagRepo implements the TagRepository interface using SQLite.
type TagRepo struct{ db *sql.DB }

// NewTagRepo creates a new SQLite-backed tag repository.
func NewTagRepo(db *sql.DB) repository.TagRepository {
	return &TagRepo{db: db}
}

func (repo *TagRepo) FindArticleIDs(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("find_tag_article_ids", time.Now())
	q := db.Conn(ctx, repo.db)

	var found []string
	for _, c := range chunks(names, maxParams) {
		query := "SELECT DISTINCT article_id FROM tags WHERE tag IN (" + placeholders(len(c)) + ")"
		part, err := queryStrings(ctx, q, query, appendStrings(nil, c)...)
		if err != nil {
			return nil, fmt.Errorf("FindArticleIDs: %w", err)
		}
		found = append(found, part...)
	}
	return dedupe(found), nil
}

func (repo *TagRepo) ListByArticleIDs(ctx context.Context, articleIDs []string) ([]entity.Tag, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("list_tags", time.Now())
	q := db.Conn(ctx, repo.db)

	type row struct {
		seq int64
		entity.Tag
	}
	var collected []row
	for _, c := range chunks(articleIDs, maxParams) {
		query := fmt.Sprintf(`
SELECT tag_id, article_id, tag, tag_value, tagged_at, tagged_by
FROM tags
WHERE article_id IN (%s)
ORDER BY tag_id
`, placeholders(len(c)))

		rows, err := q.QueryContext(ctx, query, appendStrings(nil, c)...)
		if err != nil {
			return nil, fmt.Errorf("ListByArticleIDs: QueryContext: %w", err)
		}
		for rows.Next() {
			var (
				r     row
				value sql.NullString
			)
			if err := rows.Scan(&r.seq, &r.ArticleID, &r.Name, &value, &r.TaggedAt, &r.TaggedBy); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("ListByArticleIDs: Scan: %w", err)
			}
			if value.Valid {
				r.Value = &value.String
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
	tags := make([]entity.Tag, len(collected))
	for i, r := range collected {
		tags[i] = r.Tag
	}
	return tags, nil
}

// InsertBatch writes the tags with multi-row INSERT statements. It must run
// inside a transaction for the batch to be all-or-nothing.
func (repo *TagRepo) InsertBatch(ctx context.Context, tags []entity.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	defer metrics.ObserveDBQuery("insert_tags", time.Now())
	q := db.Conn(ctx, repo.db)

	for batch := range slices.Chunk(tags, insertChunkRows) {
		var (
			sb   strings.Builder
			args = make([]any, 0, len(batch)*5)
		)
		sb.WriteString("INSERT INTO tags (article_id, tag, tag_value, tagged_at, tagged_by) VALUES ")
		for i, t := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?)")

			var value any
			if t.Value != nil {
				value = *t.Value
			}
			args = append(args, t.ArticleID, t.Name, value, t.TaggedAt.UTC(), t.TaggedBy)
		}

		if _, err := q.ExecContext(ctx, sb.String(), args...); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("InsertBatch: %w: %v", entity.ErrUnknownArticle, err)
			}
			return fmt.Errorf("InsertBatch: ExecContext: %w", err)
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
