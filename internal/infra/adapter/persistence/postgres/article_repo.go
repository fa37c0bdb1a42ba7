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

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

func (repo *ArticleRepo) ListHeadlines(ctx context.Context) ([]entity.ArticleHeadline, error) {
	const query = `
SELECT article_id, headline, published_time
FROM articles
ORDER BY published_time DESC, article_id`
	defer metrics.ObserveDBQuery("list_headlines", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListHeadlines: %w", err)
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
	return headlines, rows.Err()
}

func (repo *ArticleRepo) FindIDs(ctx context.Context, ids, headlines []string) ([]string, error) {
	where, args := repo.queryBuilder.BuildMatchClause(ids, headlines, "")
	if where == "" {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("find_article_ids", time.Now())

	query := "SELECT article_id FROM articles " + where
	found, err := queryStrings(ctx, db.Conn(ctx, repo.db), query, args...)
	if err != nil {
		return nil, fmt.Errorf("FindIDs: %w", err)
	}
	return found, nil
}

func (repo *ArticleRepo) ListByIDs(ctx context.Context, ids []string, order entity.SortOrder) ([]*entity.Article, error) {
	if len(ids) == 0 {
		return []*entity.Article{}, nil
	}
	// order.String() only ever yields ASC or DESC.
	query := fmt.Sprintf(`
SELECT article_id, headline, published_time, publisher_timezone, article_content, updated_at, updated_by
FROM articles
WHERE article_id = ANY($1)
ORDER BY published_time %s, article_id`, order.String())
	defer metrics.ObserveDBQuery("list_articles_by_ids", time.Now())

	rows, err := db.Conn(ctx, repo.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("ListByIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, len(ids))
	for rows.Next() {
		var (
			a       entity.Article
			content sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Headline, &a.PublishedTime, &a.PublisherTimezone,
			&content, &a.UpdatedAt, &a.UpdatedBy); err != nil {
			return nil, fmt.Errorf("ListByIDs: Scan: %w", err)
		}
		if content.Valid {
			a.Content = &content.String
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// queryStrings runs a query returning a single text column.
func queryStrings(ctx context.Context, q db.Querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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
	return out, rows.Err()
}
