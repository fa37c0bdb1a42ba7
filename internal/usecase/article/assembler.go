package article

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/observability/tracing"
	"article-tagger/internal/repository"
)

// Record is the denormalized view of one article in a search result.
// Entities and Tags are nil when nothing is attached.
type Record struct {
	Article  *entity.Article
	Entities map[string][]string
	Tags     []string
}

// Assembler expands article ids into Records.
type Assembler struct {
	Articles repository.ArticleRepository
	Entities repository.EntityRepository
	Tags     repository.TagRepository
}

// Assemble loads the articles, their entities and their tags with one batch
// read each, run concurrently. The records follow the article ordering by
// published time. Ids that no longer exist are dropped.
func (a *Assembler) Assemble(ctx context.Context, ids []string, order entity.SortOrder) (records []Record, err error) {
	if len(ids) == 0 {
		return []Record{}, nil
	}
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "article.Assemble",
		attribute.Int("ids", len(ids)),
		attribute.String("order", order.String()))
	defer func() { tracing.EndSpan(span, err) }()

	var (
		articles    []*entity.Article
		annotations []entity.Annotation
		tags        []entity.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if articles, err = a.Articles.ListByIDs(gctx, ids, order); err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if annotations, err = a.Entities.ListByArticleIDs(gctx, ids); err != nil {
			return fmt.Errorf("list entities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = a.Tags.ListByArticleIDs(gctx, ids); err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records = buildRecords(articles, annotations, tags)
	metrics.RecordAssembly("search", len(records), time.Since(start))
	return records, nil
}

func buildRecords(articles []*entity.Article, annotations []entity.Annotation, tags []entity.Tag) []Record {
	records := make([]Record, 0, len(articles))
	index := make(map[string]int, len(articles))
	for _, art := range articles {
		if _, dup := index[art.ID]; dup {
			continue
		}
		index[art.ID] = len(records)
		records = append(records, Record{Article: art})
	}

	seen := make(map[[3]string]struct{}, len(annotations))
	for _, an := range annotations {
		i, ok := index[an.ArticleID]
		if !ok {
			continue
		}
		key := [3]string{an.ArticleID, an.Kind, an.Value}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if records[i].Entities == nil {
			records[i].Entities = make(map[string][]string)
		}
		records[i].Entities[an.Kind] = append(records[i].Entities[an.Kind], an.Value)
	}

	for _, t := range tags {
		if i, ok := index[t.ArticleID]; ok {
			records[i].Tags = append(records[i].Tags, t.Name)
		}
	}
	return records
}
