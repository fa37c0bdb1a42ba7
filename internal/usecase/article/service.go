package article

import (
	"context"
	"time"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/observability/metrics"
	"article-tagger/internal/repository"
)

// Service provides the article listing and search use cases.
type Service struct {
	Repo      repository.ArticleRepository
	Resolver  *Resolver
	Assembler *Assembler
}

// NewService wires a Service whose resolver and assembler share the given repositories.
func NewService(tx repository.Transactor, articles repository.ArticleRepository,
	entities repository.EntityRepository, tags repository.TagRepository) *Service {
	return &Service{
		Repo: articles,
		Resolver: &Resolver{
			Tx:       tx,
			Articles: articles,
			Entities: entities,
			Tags:     tags,
		},
		Assembler: &Assembler{
			Articles: articles,
			Entities: entities,
			Tags:     tags,
		},
	}
}

// ListAll returns the headline of every article, newest first.
// An empty relation yields an empty, non-nil slice.
func (s *Service) ListAll(ctx context.Context) ([]entity.ArticleHeadline, error) {
	start := time.Now()
	headlines, err := s.Repo.ListHeadlines(ctx)
	if err != nil {
		metrics.RecordStorageError(OpListArticles)
		return nil, entity.AsStorage(OpListArticles, err)
	}
	if headlines == nil {
		headlines = []entity.ArticleHeadline{}
	}
	metrics.RecordAssembly("list_all", len(headlines), time.Since(start))
	return headlines, nil
}

// Search resolves c and assembles the matching articles in the requested order.
// Validation failures are returned as *entity.ValidationError, everything else
// as *entity.StorageError.
func (s *Service) Search(ctx context.Context, c Criteria, order entity.SortOrder) ([]Record, error) {
	ids, err := s.Resolver.Resolve(ctx, c)
	if err != nil {
		if !entity.IsValidation(err) {
			metrics.RecordStorageError(OpResolve)
		}
		return nil, entity.AsStorage(OpResolve, err)
	}
	if len(ids) == 0 {
		return []Record{}, nil
	}

	records, err := s.Assembler.Assemble(ctx, ids, order)
	if err != nil {
		metrics.RecordStorageError(OpAssemble)
		return nil, entity.AsStorage(OpAssemble, err)
	}
	return records, nil
}
