package article_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-tagger/internal/domain/entity"
	artUC "article-tagger/internal/usecase/article"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fixture: X has city=toronto and topic=covid-19, Y has only city=toronto,
// Z has city=ottawa. X and Z carry the "news" tag.
func fixture() *store {
	s := newStore()
	s.articles = []*entity.Article{
		{ID: "X", Headline: "Toronto cases rise", PublishedTime: t0.Add(2 * time.Hour)},
		{ID: "Y", Headline: "Toronto weather", PublishedTime: t0.Add(time.Hour)},
		{ID: "Z", Headline: "Ottawa budget", PublishedTime: t0},
	}
	s.annotations = []entity.Annotation{
		{ArticleID: "X", Kind: "city", Value: "toronto"},
		{ArticleID: "X", Kind: "topic", Value: "covid-19"},
		{ArticleID: "Y", Kind: "city", Value: "toronto"},
		{ArticleID: "Z", Kind: "city", Value: "ottawa"},
	}
	s.tags = []entity.Tag{
		{ArticleID: "X", Name: "news"},
		{ArticleID: "Z", Name: "news"},
	}
	return s
}

func newResolver(s *store) (*artUC.Resolver, *stubTx) {
	tx := &stubTx{}
	return &artUC.Resolver{
		Tx:       tx,
		Articles: articleRepo{s},
		Entities: entityRepo{s},
		Tags:     tagRepo{s},
	}, tx
}

func TestResolver_NoCriteriaIsEmpty(t *testing.T) {
	s := fixture()
	r, tx := newResolver(s)

	ids, err := r.Resolve(context.Background(), artUC.Criteria{})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids, "no filter must not mean everything")
	assert.Empty(t, s.calls, "no query may run")
	assert.Zero(t, tx.readOnly)
}

func TestResolver_SingleCategories(t *testing.T) {
	tests := []struct {
		name     string
		criteria artUC.Criteria
		want     []string
	}{
		{name: "article id", criteria: artUC.Criteria{ArticleIDs: []string{"Y"}}, want: []string{"Y"}},
		{name: "headline", criteria: artUC.Criteria{Headlines: []string{"Ottawa budget"}}, want: []string{"Z"}},
		{
			name:     "article id or headline",
			criteria: artUC.Criteria{ArticleIDs: []string{"Y"}, Headlines: []string{"Ottawa budget"}},
			want:     []string{"Y", "Z"},
		},
		{name: "tag", criteria: artUC.Criteria{Tags: []string{"news", "sports"}}, want: []string{"X", "Z"}},
		{
			name:     "entity values are OR'd",
			criteria: artUC.Criteria{Entities: map[string][]string{"city": {"toronto", "ottawa"}}},
			want:     []string{"X", "Y", "Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, tx := newResolver(fixture())
			ids, err := r.Resolve(context.Background(), tt.criteria)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, 1, tx.readOnly, "resolution runs in one read-only unit of work")
		})
	}
}

func TestResolver_EntityKindsIntersect(t *testing.T) {
	r, _ := newResolver(fixture())
	ctx := context.Background()

	both, err := r.Resolve(ctx, artUC.Criteria{Entities: map[string][]string{
		"city":  {"toronto"},
		"topic": {"covid-19"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, both)

	cityOnly, err := r.Resolve(ctx, artUC.Criteria{Entities: map[string][]string{"city": {"toronto"}}})
	require.NoError(t, err)
	topicOnly, err := r.Resolve(ctx, artUC.Criteria{Entities: map[string][]string{"topic": {"covid-19"}}})
	require.NoError(t, err)

	assert.Subset(t, cityOnly, both)
	assert.Subset(t, topicOnly, both)
}

func TestResolver_CategoriesIntersect(t *testing.T) {
	r, _ := newResolver(fixture())

	ids, err := r.Resolve(context.Background(), artUC.Criteria{
		Tags:     []string{"news"},
		Entities: map[string][]string{"city": {"toronto"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ids)
}

func TestResolver_TagAndEntityDoNotReuseStaleCandidates(t *testing.T) {
	// Y matches the first kind but not the tag; it must not come back through a later stage.
	r, _ := newResolver(fixture())

	ids, err := r.Resolve(context.Background(), artUC.Criteria{
		Tags: []string{"news"},
		Entities: map[string][]string{
			"city":  {"toronto"},
			"topic": {"covid-19"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ids)
}

func TestResolver_ShortCircuitsOnEmptyCategory(t *testing.T) {
	tests := []struct {
		name      string
		criteria  artUC.Criteria
		wantCalls []string
	}{
		{
			name: "article filter empty",
			criteria: artUC.Criteria{
				ArticleIDs: []string{"missing"},
				Tags:       []string{"news"},
				Entities:   map[string][]string{"city": {"toronto"}},
			},
			wantCalls: []string{"FindIDs"},
		},
		{
			name: "tag filter empty",
			criteria: artUC.Criteria{
				Tags:     []string{"sports"},
				Entities: map[string][]string{"city": {"toronto"}},
			},
			wantCalls: []string{"FindTags"},
		},
		{
			name: "first entity kind empty",
			criteria: artUC.Criteria{Entities: map[string][]string{
				"city":  {"paris"},
				"topic": {"covid-19"},
			}},
			wantCalls: []string{"FindEntity:city"},
		},
		{
			name: "entity kind without values",
			criteria: artUC.Criteria{
				Tags:     []string{"news"},
				Entities: map[string][]string{"city": {}, "topic": {"covid-19"}},
			},
			wantCalls: []string{"FindTags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixture()
			r, _ := newResolver(s)

			ids, err := r.Resolve(context.Background(), tt.criteria)
			require.NoError(t, err)
			assert.Empty(t, ids)
			assert.Equal(t, tt.wantCalls, s.calls)
		})
	}
}

func TestResolver_EmptyListsAreNotRequested(t *testing.T) {
	tests := []struct {
		name      string
		criteria  artUC.Criteria
		want      []string
		wantCalls []string
	}{
		{
			name:      "empty tag list beside article ids",
			criteria:  artUC.Criteria{ArticleIDs: []string{"X"}, Tags: []string{}},
			want:      []string{"X"},
			wantCalls: []string{"FindIDs"},
		},
		{
			name:      "empty headline list beside entities",
			criteria:  artUC.Criteria{Headlines: []string{}, Entities: map[string][]string{"city": {"toronto"}}},
			want:      []string{"X", "Y"},
			wantCalls: []string{"FindEntity:city"},
		},
		{
			name:     "only empty lists",
			criteria: artUC.Criteria{ArticleIDs: []string{}, Headlines: []string{}, Tags: []string{}, Entities: map[string][]string{}},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixture()
			r, _ := newResolver(s)

			ids, err := r.Resolve(context.Background(), tt.criteria)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, tt.wantCalls, s.calls)
		})
	}
}

func TestResolver_EntityKindWithoutValuesMatchesNothing(t *testing.T) {
	s := fixture()
	r, tx := newResolver(s)

	ids, err := r.Resolve(context.Background(), artUC.Criteria{Entities: map[string][]string{"city": {}}})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Empty(t, s.calls, "a kind without values needs no query")
	assert.Equal(t, 1, tx.readOnly)
}

func TestResolver_EvaluationOrder(t *testing.T) {
	s := fixture()
	r, _ := newResolver(s)

	_, err := r.Resolve(context.Background(), artUC.Criteria{
		Headlines: []string{"Toronto cases rise"},
		Tags:      []string{"news"},
		Entities: map[string][]string{
			"topic": {"covid-19"},
			"city":  {"toronto"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"FindIDs", "FindTags", "FindEntity:city", "FindEntity:topic"}, s.calls)
}

func TestResolver_ValidationRunsBeforeQueries(t *testing.T) {
	tests := []struct {
		name     string
		entities map[string][]string
	}{
		{name: "empty kind", entities: map[string][]string{"": {"x"}}},
		{name: "kind too long", entities: map[string][]string{string(make([]byte, 46)): {"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixture()
			r, tx := newResolver(s)

			_, err := r.Resolve(context.Background(), artUC.Criteria{Tags: []string{"news"}, Entities: tt.entities})
			require.Error(t, err)
			assert.True(t, entity.IsValidation(err))
			assert.Empty(t, s.calls)
			assert.Zero(t, tx.readOnly)
		})
	}
}

func TestResolver_StorageError(t *testing.T) {
	s := fixture()
	boom := errors.New("connection reset")
	s.err["FindTags"] = boom
	r, _ := newResolver(s)

	_, err := r.Resolve(context.Background(), artUC.Criteria{Tags: []string{"news"}})
	assert.ErrorIs(t, err, boom)
	assert.False(t, entity.IsValidation(err))
}
