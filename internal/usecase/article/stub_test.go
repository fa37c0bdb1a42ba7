package article_test

import (
	"context"
	"slices"
	"sync"

	"article-tagger/internal/domain/entity"
)

/* ───────── in-memory repositories ───────── */

type store struct {
	mu          sync.Mutex
	articles    []*entity.Article
	annotations []entity.Annotation
	tags        []entity.Tag
	calls       []string
	err         map[string]error // forced error per method name
}

func newStore() *store { return &store{err: map[string]error{}} }

func (s *store) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.err[call]
}

type articleRepo struct{ *store }

func (r articleRepo) ListHeadlines(_ context.Context) ([]entity.ArticleHeadline, error) {
	if err := r.record("ListHeadlines"); err != nil {
		return nil, err
	}
	sorted := slices.Clone(r.articles)
	slices.SortStableFunc(sorted, func(a, b *entity.Article) int { return b.PublishedTime.Compare(a.PublishedTime) })
	var out []entity.ArticleHeadline
	for _, a := range sorted {
		out = append(out, entity.ArticleHeadline{ID: a.ID, Headline: a.Headline, PublishedTime: a.PublishedTime})
	}
	return out, nil
}

func (r articleRepo) FindIDs(_ context.Context, ids, headlines []string) ([]string, error) {
	if err := r.record("FindIDs"); err != nil {
		return nil, err
	}
	var out []string
	for _, a := range r.articles {
		if slices.Contains(ids, a.ID) || slices.Contains(headlines, a.Headline) {
			out = append(out, a.ID)
		}
	}
	return out, nil
}

func (r articleRepo) ListByIDs(_ context.Context, ids []string, order entity.SortOrder) ([]*entity.Article, error) {
	if err := r.record("ListByIDs"); err != nil {
		return nil, err
	}
	var out []*entity.Article
	for _, a := range r.articles {
		if slices.Contains(ids, a.ID) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b *entity.Article) int {
		if order == entity.SortAscending {
			return a.PublishedTime.Compare(b.PublishedTime)
		}
		return b.PublishedTime.Compare(a.PublishedTime)
	})
	return out, nil
}

type entityRepo struct{ *store }

func (r entityRepo) FindArticleIDs(_ context.Context, kind string, values []string) ([]string, error) {
	if err := r.record("FindEntity:" + kind); err != nil {
		return nil, err
	}
	var out []string
	for _, an := range r.annotations {
		if an.Kind == kind && slices.Contains(values, an.Value) && !slices.Contains(out, an.ArticleID) {
			out = append(out, an.ArticleID)
		}
	}
	return out, nil
}

func (r entityRepo) ListByArticleIDs(_ context.Context, ids []string) ([]entity.Annotation, error) {
	if err := r.record("ListEntities"); err != nil {
		return nil, err
	}
	var out []entity.Annotation
	for _, an := range r.annotations {
		if slices.Contains(ids, an.ArticleID) {
			out = append(out, an)
		}
	}
	return out, nil
}

type tagRepo struct{ *store }

func (r tagRepo) FindArticleIDs(_ context.Context, names []string) ([]string, error) {
	if err := r.record("FindTags"); err != nil {
		return nil, err
	}
	var out []string
	for _, t := range r.tags {
		if slices.Contains(names, t.Name) && !slices.Contains(out, t.ArticleID) {
			out = append(out, t.ArticleID)
		}
	}
	return out, nil
}

func (r tagRepo) ListByArticleIDs(_ context.Context, ids []string) ([]entity.Tag, error) {
	if err := r.record("ListTags"); err != nil {
		return nil, err
	}
	var out []entity.Tag
	for _, t := range r.tags {
		if slices.Contains(ids, t.ArticleID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r tagRepo) InsertBatch(_ context.Context, tags []entity.Tag) error {
	if err := r.record("InsertBatch"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.tags = append(r.store.tags, tags...)
	return nil
}

type stubTx struct {
	readOnly  int
	readWrite int
}

func (t *stubTx) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	t.readWrite++
	return fn(ctx)
}

func (t *stubTx) WithinReadOnlyTx(ctx context.Context, fn func(context.Context) error) error {
	t.readOnly++
	return fn(ctx)
}
