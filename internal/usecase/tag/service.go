package tag

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/observability/tracing"
	"article-tagger/internal/repository"
)

// OpInsertTags names storage failures raised while inserting a batch.
const OpInsertTags = "insert tags"

// Service appends tags on behalf of a single actor.
type Service struct {
	Tx    repository.Transactor
	Repo  repository.TagRepository
	Actor string
	// Now returns the tagging time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// NewService creates a Service that stamps every tag with actor.
func NewService(tx repository.Transactor, repo repository.TagRepository, actor string) *Service {
	return &Service{Tx: tx, Repo: repo, Actor: actor}
}

// TagArticles validates and flattens batch, then inserts every row in one
// read-write transaction. Either all rows are stored or none is. A reference
// to a missing article fails the whole batch with entity.ErrUnknownArticle.
func (s *Service) TagArticles(ctx context.Context, batch []Request) (inserted []entity.Tag, err error) {
	rows, err := Flatten(batch, s.Actor, s.now())
	if err != nil {
		metrics.RecordTagBatch(metrics.StatusInvalid, 0)
		return nil, err
	}
	if len(rows) == 0 {
		metrics.RecordTagBatch(metrics.StatusSuccess, 0)
		return rows, nil
	}

	ctx, span := tracing.StartSpan(ctx, "tag.TagArticles",
		attribute.Int("batch", len(batch)),
		attribute.Int("rows", len(rows)))
	defer func() { tracing.EndSpan(span, err) }()

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.Repo.InsertBatch(ctx, rows)
	})
	if err != nil {
		status := metrics.StatusFailure
		if errors.Is(err, entity.ErrUnknownArticle) {
			status = metrics.StatusUnknownArticle
		}
		metrics.RecordTagBatch(status, len(rows))
		metrics.RecordStorageError(OpInsertTags)
		return nil, entity.AsStorage(OpInsertTags, err)
	}

	metrics.RecordTagBatch(metrics.StatusSuccess, len(rows))
	return rows, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
