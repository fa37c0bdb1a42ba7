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

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

// ListHeadlines retrieves every article, newest first.
func (repo *ArticleRepo) ListHeadlines(ctx context.Context) ([]entity.ArticleHeadline, error) {
	const query = `
SELECT article_id, headline, published_time
FROM articles
ORDER BY published_time DESC, article_id
`
	defer metrics.ObserveDBQuery("list_headlines", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListHeadlines: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	headlines := make([]entity.ArticleHeadline, 0, 100)
	for rows.Next() {
		var h entity.ArticleHeadline
		if err := rows.Scan(&h.ID, &h.Headline, &h.PublishedTime); err != nil {
			return nil, fmt.Errorf("ListHeadlines: Scan: %w", err)
		}
		headlines = append(headlines, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListHeadlines: rows.Err: %w", err)
	}
	return headlines, nil
}

// FindIDs returns the ids of articles matched by id or by headline.
// Large inputs are split into several statements whose results are merged.
func (repo *ArticleRepo) FindIDs(ctx context.Context, ids, headlines []string) ([]string, error) {
	if len(ids) == 0 && len(headlines) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("find_article_ids", time.Now())
	q := db.Conn(ctx, repo.db)

	if len(ids)+len(headlines) <= maxParams {
		where, args := repo.queryBuilder.BuildMatchClause(ids, headlines)
		found, err := queryStrings(ctx, q, "SELECT article_id FROM articles "+where, args...)
		if err != nil {
			return nil, fmt.Errorf("FindIDs: %w", err)
		}
		return found, nil
	}

	var found []string
	for _, c := range chunks(ids, maxParams) {
		where, args := repo.queryBuilder.BuildMatchClause(c, nil)
		part, err := queryStrings(ctx, q, "SELECT article_id FROM articles "+where, args...)
		if err != nil {
			return nil, fmt.Errorf("FindIDs: %w", err)
		}
		found = append(found, part...)
	}
	for _, c := range chunks(headlines, maxParams) {
		where, args := repo.queryBuilder.BuildMatchClause(nil, c)
		part, err := queryStrings(ctx, q, "SELECT article_id FROM articles "+where, args...)
		if err != nil {
			return nil, fmt.Errorf("FindIDs: %w", err)
		}
		found = append(found, part...)
	}
	return dedupe(found), nil
}

// ListByIDs retrieves the given articles ordered by published_time.
func (repo *ArticleRepo) ListByIDs(ctx context.Context, ids []string, order entity.SortOrder) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return []*entity.Article{}, nil
	}
	defer metrics.ObserveDBQuery("list_articles_by_ids", time.Now())
	q := db.Conn(ctx, repo.db)

	articles := make([]*entity.Article, 0, len(ids))
	for _, c := range chunks(ids, maxParams) {
		query := fmt.Sprintf(`
SELECT article_id, headline, published_time, publisher_timezone, article_content, updated_at, updated_by
FROM articles
WHERE article_id IN (%s)
ORDER BY published_time %s, article_id
`, placeholders(len(c)), order.String())

		rows, err := q.QueryContext(ctx, query, appendStrings(nil, c)...)
		if err != nil {
			return nil, fmt.Errorf("ListByIDs: QueryContext: %w", err)
		}
		articles, err = scanArticles(rows, articles)
		if err != nil {
			return nil, fmt.Errorf("ListByIDs: %w", err)
		}
	}

	if len(ids) > maxParams {
		slices.SortStableFunc(articles, func(a, b *entity.Article) int {
			c := a.PublishedTime.Compare(b.PublishedTime)
			if order == entity.SortDescending {
				c = -c
			}
			if c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return articles, nil
}

func scanArticles(rows *sql.Rows, dst []*entity.Article) ([]*entity.Article, error) {
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			a       entity.Article
			content sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Headline, &a.PublishedTime, &a.PublisherTimezone,
			&content, &a.UpdatedAt, &a.UpdatedBy); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		if content.Valid {
			a.Content = &content.String
		}
		dst = append(dst, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return dst, nil
}

// queryStrings runs a query returning a single text column.
func queryStrings(ctx context.Context, q db.Querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return out, nil
}
