package article

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/observability/tracing"
	"article-tagger/internal/repository"
)

// Resolver turns search criteria into the set of matching article ids.
// Categories are combined with AND; the values inside a category with OR.
// Entity kinds are themselves combined with AND.
type Resolver struct {
	Tx       repository.Transactor
	Articles repository.ArticleRepository
	Entities repository.EntityRepository
	Tags     repository.TagRepository
}

// Resolve evaluates the article, tag and entity categories in that order
// inside one read-only transaction. It stops at the first category that
// matches nothing. Criteria without any category resolve to no ids.
func (r *Resolver) Resolve(ctx context.Context, c Criteria) (ids []string, err error) {
	if err := c.Validate(); err != nil {
		metrics.RecordResolution(metrics.OutcomeInvalid, 0)
		return nil, err
	}
	if c.IsEmpty() {
		metrics.RecordResolution(metrics.OutcomeEmpty, 0)
		return []string{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "article.Resolve",
		attribute.Bool("filter.article", c.HasArticleFilter()),
		attribute.Bool("filter.tag", c.HasTagFilter()),
		attribute.Int("filter.entity_kinds", len(c.Entities)))
	defer func() { tracing.EndSpan(span, err) }()

	var shortCircuit bool
	err = r.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var e error
		ids, shortCircuit, e = r.resolve(ctx, c)
		return e
	})
	if err != nil {
		metrics.RecordResolution(metrics.OutcomeError, 0)
		return nil, err
	}

	switch {
	case shortCircuit:
		metrics.RecordResolution(metrics.OutcomeShortCircuit, 0)
	case len(ids) == 0:
		metrics.RecordResolution(metrics.OutcomeEmpty, 0)
	default:
		metrics.RecordResolution(metrics.OutcomeMatched, len(ids))
	}
	span.SetAttributes(attribute.Int("resolved", len(ids)))
	return ids, nil
}

// resolve reports shortCircuit when a requested category came back empty
// before every category had been evaluated.
func (r *Resolver) resolve(ctx context.Context, c Criteria) (ids []string, shortCircuit bool, err error) {
	var candidates []string
	started := false

	narrow := func(found []string) bool {
		if !started {
			candidates = dedupe(found)
			started = true
		} else {
			candidates = intersect(candidates, found)
		}
		return len(candidates) > 0
	}

	remaining := len(c.Entities)
	if c.HasTagFilter() {
		remaining++
	}

	if c.HasArticleFilter() {
		found, err := r.Articles.FindIDs(ctx, c.ArticleIDs, c.Headlines)
		if err != nil {
			return nil, false, fmt.Errorf("find articles: %w", err)
		}
		if !narrow(found) {
			return []string{}, remaining > 0, nil
		}
	}

	if c.HasTagFilter() {
		remaining--
		found, err := r.Tags.FindArticleIDs(ctx, c.Tags)
		if err != nil {
			return nil, false, fmt.Errorf("find tagged articles: %w", err)
		}
		if !narrow(found) {
			return []string{}, remaining > 0, nil
		}
	}

	for _, kind := range c.EntityKinds() {
		remaining--
		values := c.Entities[kind]
		if len(values) == 0 {
			return []string{}, remaining > 0, nil
		}
		found, err := r.Entities.FindArticleIDs(ctx, kind, values)
		if err != nil {
			return nil, false, fmt.Errorf("find articles with entity %s: %w", kind, err)
		}
		if !narrow(found) {
			return []string{}, remaining > 0, nil
		}
	}

	return candidates, false, nil
}

// intersect keeps the elements of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := make([]string, 0, min(len(a), len(b)))
	for _, id := range a {
		if _, ok := in[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
